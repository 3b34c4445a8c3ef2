package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/journal"
	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/tui/components/about"
	"github.com/julianstephens/keptword/internal/tui/components/onboarding"
	"github.com/julianstephens/keptword/internal/tui/components/promiselist"
)

// rows used by the header, filter bar and help beneath the list
const chromeHeight = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.search.Width = max(msg.Width-h-4, 10)
		m.promiseList.SetSize(msg.Width-h, max(msg.Height-v-chromeHeight, 1))
		m.onboardingModel.SetSize(msg.Width-h, max(msg.Height-v-2, 1))
		m.aboutModel.SetSize(msg.Width-h, max(msg.Height-v-4, 1))
		return m, nil

	case clockTickMsg:
		return m, tickClock()

	case clearNotificationMsg:
		if msg.seq == m.notificationSeq {
			m.notification = nil
		}
		return m, nil

	case onboarding.StartMsg:
		err := m.journal.CompleteOnboarding()
		m.state = constants.StateJournal
		m.refresh()
		cmd := m.notify(journal.NotificationFor(journal.OpOnboard, err))
		return m, cmd

	case promiselist.AddPromiseMsg:
		cmd := m.openForm(nil)
		return m, cmd

	case promiselist.EditPromiseMsg:
		entry := msg.Entry
		cmd := m.openForm(&entry)
		return m, cmd

	case promiselist.DeletePromiseMsg:
		m.promiseToDelete = msg.ID
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil

	case about.ClearAllMsg:
		m.previousState = m.state
		m.state = constants.StateConfirmClear
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	switch m.state {
	case constants.StateOnboarding:
		return m.updateOnboarding(msg)
	case constants.StateEditing:
		return m.updateEditing(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case constants.StateConfirmClear:
		return m.updateConfirmClear(msg)
	case constants.StateAbout:
		return m.updateAbout(msg)
	default:
		return m.updateJournal(msg)
	}
}

func (m Model) updateOnboarding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.onboardingModel, cmd = m.onboardingModel.Update(msg)
	return m, cmd
}

func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.state = constants.StateJournal
		return m, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		cmd = m.savePromise()
		return m, cmd
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		err := m.journal.Delete(m.promiseToDelete)
		m.promiseToDelete = ""
		m.state = m.previousState
		m.refresh()
		cmd := m.notify(journal.NotificationFor(journal.OpDelete, err))
		return m, cmd
	case key.Matches(keyMsg, m.keys.No):
		m.promiseToDelete = ""
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) updateConfirmClear(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		err := m.journal.ClearAll()
		m.filter.Person = constants.FilterAll
		m.state = m.previousState
		m.refresh()
		cmd := m.notify(journal.NotificationFor(journal.OpClear, err))
		return m, cmd
	case key.Matches(keyMsg, m.keys.No):
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) updateAbout(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = constants.StateJournal
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.aboutModel, cmd = m.aboutModel.Update(msg)
	return m, cmd
}

func (m Model) updateJournal(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.promiseList, cmd = m.promiseList.Update(msg)
		return m, cmd
	}

	if m.searching {
		switch keyMsg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != m.filter.Search {
			m.filter.Search = m.search.Value()
			m.refresh()
		}
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = constants.StateAbout
		return m, nil
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(keyMsg, m.keys.NextStatus):
		m.filter.Status = cycle(statusOptions(), m.filter.Status, 1)
		m.refresh()
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevStatus):
		m.filter.Status = cycle(statusOptions(), m.filter.Status, -1)
		m.refresh()
		return m, nil
	case key.Matches(keyMsg, m.keys.NextPerson):
		if m.result.ShowPersonFilter() {
			m.filter.Person = cycle(m.result.People, m.filter.Person, 1)
			m.refresh()
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevPerson):
		if m.result.ShowPersonFilter() {
			m.filter.Person = cycle(m.result.People, m.filter.Person, -1)
			m.refresh()
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Reset):
		m.search.SetValue("")
		m.filter = models.DefaultFilter()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.promiseList, cmd = m.promiseList.Update(msg)
	return m, cmd
}
