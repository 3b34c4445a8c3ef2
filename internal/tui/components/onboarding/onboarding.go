package onboarding

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const welcome = `# Forgotten Promises

Keep track of the things people told you they would do.

## Privacy First

All data stays on this device. No cloud, no tracking, no sharing.

## Gentle Reminders

Record commitments and get reminded when it's time to check in.

## Emotional Clarity

Track outcomes without judgment. For your personal peace of mind.
`

var buttonStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("230")).
	Background(lipgloss.Color("205")).
	Padding(0, 3).
	Bold(true)

// StartMsg is sent when the user leaves the welcome screen
type StartMsg struct{}

type Model struct {
	viewport viewport.Model
	start    key.Binding
	width    int
	height   int
}

func New(width, height int) Model {
	m := Model{
		viewport: viewport.New(width, height),
		start: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "get started"),
		),
	}
	m.Render()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.start) {
		return m, func() tea.Msg { return StartMsg{} }
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.viewport.View(),
		buttonStyle.Render("Get Started"),
		"",
		"press enter to begin",
	)
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-3, 1)
	m.Render()
}

// Render refreshes the viewport content for the current width
func (m *Model) Render() {
	m.viewport.SetContent(RenderMarkdown(welcome, m.width))
}

// RenderMarkdown renders md for the terminal, falling back to the raw text
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
