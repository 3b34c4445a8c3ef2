package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/journal"
)

type clearNotificationMsg struct {
	seq int
}

// notify shows n until the TTL passes or a newer notification replaces it
func (m *Model) notify(n journal.Notification) tea.Cmd {
	if n.Message == "" {
		return nil
	}
	m.notificationSeq++
	seq := m.notificationSeq
	m.notification = &n
	return tea.Tick(constants.NotificationTTL, func(time.Time) tea.Msg {
		return clearNotificationMsg{seq: seq}
	})
}

type clockTickMsg struct{}

// tickClock wakes the program so overdue markers follow the wall clock
func tickClock() tea.Cmd {
	return tea.Tick(constants.ClockRefreshInterval, func(time.Time) tea.Msg {
		return clockTickMsg{}
	})
}
