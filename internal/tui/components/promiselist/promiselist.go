package promiselist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/utils"
	"github.com/julianstephens/keptword/internal/view"
)

var (
	personStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	dueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	notesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	selectedBar = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			SetString("│ ")

	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.StatusFulfilled: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.StatusBroken:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		models.StatusUnclear:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	}
)

type AddPromiseMsg struct{}

type EditPromiseMsg struct {
	Entry models.PromiseEntry
}

type DeletePromiseMsg struct {
	ID string
}

type Item struct {
	Entry models.PromiseEntry
}

func (i Item) Title() string       { return i.Entry.PersonName }
func (i Item) Description() string { return i.Entry.Description }
func (i Item) FilterValue() string { return i.Entry.PersonName + " " + i.Entry.Description }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

// cardDelegate renders each promise as a four line card. Due text is
// relative to the clock at render time.
type cardDelegate struct {
	now func() time.Time
}

func (d cardDelegate) Height() int                             { return 4 }
func (d cardDelegate) Spacing() int                            { return 1 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(Item)
	if !ok {
		return
	}
	e := i.Entry

	width := m.Width() - 4
	if width < 20 {
		width = 20
	}

	statusStyle, ok := statusStyles[e.Status]
	if !ok {
		statusStyle = statusStyles[models.StatusUnclear]
	}

	header := fmt.Sprintf("%s %s  %s",
		statusStyle.Render(StatusIcon(e.Status)),
		personStyle.Render(e.PersonName),
		statusStyle.Render(e.Status.String()),
	)

	now := d.now()
	due := "Follow up " + utils.FormatDisplayDate(e.FollowUpDate) + " (" + utils.RelativeDue(e.FollowUpDate, now) + ")"
	if view.IsOverdue(e, now) {
		due = overdueStyle.Render(due + " ⚠ overdue")
	} else {
		due = dueStyle.Render(due)
	}

	notes := ""
	if n := strings.TrimSpace(e.Notes); n != "" {
		wrapped := strings.SplitN(wordwrap.String(n, width), "\n", 2)
		notes = wrapped[0]
		if len(wrapped) > 1 {
			notes = truncate.StringWithTail(notes, uint(width-1), "") + "…"
		}
		notes = notesStyle.Render(notes)
	}

	lines := []string{
		header,
		descStyle.Render(truncate.StringWithTail(e.Description, uint(width), "…")),
		due,
		notes,
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedBar.String()
	}
	for n, line := range lines {
		lines[n] = prefix + line
	}
	fmt.Fprint(w, strings.Join(lines, "\n"))
}

// StatusIcon is the glyph shown next to each status
func StatusIcon(s models.Status) string {
	switch s {
	case models.StatusFulfilled:
		return "✓"
	case models.StatusBroken:
		return "✗"
	case models.StatusUnclear:
		return "?"
	default:
		return "•"
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

// New builds an empty list. A nil clock means time.Now.
func New(width, height int, clock func() time.Time) Model {
	if clock == nil {
		clock = time.Now
	}
	delegate := cardDelegate{now: clock}

	l := list.New(nil, delegate, width, height)
	l.Title = "Promises"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false) // search lives in the journal filter bar
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

// SetEntries replaces the list contents. Entries keep the order given.
func (m *Model) SetEntries(entries []models.PromiseEntry) {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	m.list.SetItems(items)
}

// Selected returns the highlighted entry, if any
func (m Model) Selected() (models.PromiseEntry, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.PromiseEntry{}, false
	}
	return i.Entry, true
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddPromiseMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return EditPromiseMsg{Entry: i.Entry} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeletePromiseMsg{ID: i.Entry.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
