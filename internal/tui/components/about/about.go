package about

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/tui/components/onboarding"
)

const privacy = `## Privacy

All data is stored locally on this device.

- No data is sent to any server
- No accounts, logins, or analytics
- You control all your data entirely
`

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	dangerZoneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)
)

// ClearAllMsg asks for every stored promise to be removed
type ClearAllMsg struct{}

type Model struct {
	viewport viewport.Model
	clear    key.Binding
	total    int
	width    int
	height   int
}

func New(width, height int) Model {
	m := Model{
		viewport: viewport.New(width, height),
		clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear all data"),
		),
	}
	m.Render()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.clear) {
		return m, func() tea.Msg { return ClearAllMsg{} }
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetTotal(n int) {
	if m.total == n {
		return
	}
	m.total = n
	m.Render()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) Render() {
	var b strings.Builder
	b.WriteString(valueStyle.Render("About & Settings"))
	b.WriteString("\n\n")
	b.WriteString(onboarding.RenderMarkdown(privacy, m.width))
	b.WriteString(valueStyle.Render("Your Data"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Total Promises"), valueStyle.Render(fmt.Sprint(m.total)))

	danger := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Render("Danger Zone"),
		"Clear All Data: press 'x' to permanently remove every promise.",
	)
	b.WriteString(dangerZoneStyle.Render(danger))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(constants.AppName + " " + constants.Version))

	m.viewport.SetContent(b.String())
}
