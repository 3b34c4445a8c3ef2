package tui

import (
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/journal"
	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/tui/components/about"
	"github.com/julianstephens/keptword/internal/tui/components/onboarding"
	"github.com/julianstephens/keptword/internal/tui/components/promiselist"
	"github.com/julianstephens/keptword/internal/view"
)

type PromiseFormModel struct {
	PersonName   string
	Description  string
	DateMade     string
	FollowUpDate string
	Notes        string
	Status       models.Status
	RemindMe     bool
}

type Model struct {
	journal         *journal.Journal
	state           constants.SessionState
	previousState   constants.SessionState
	keys            KeyMap
	help            help.Model
	search          textinput.Model
	searching       bool
	filter          models.FilterState
	result          view.Result
	promiseList     promiselist.Model
	onboardingModel onboarding.Model
	aboutModel      about.Model
	form            *huh.Form
	promiseForm     *PromiseFormModel
	editingID       string // empty while adding
	promiseToDelete string
	notification    *journal.Notification
	notificationSeq int
	quitting        bool
	width           int
	height          int
}

func NewModel(j *journal.Journal) Model {
	search := textinput.New()
	search.Placeholder = "Search people and promises"
	search.Prompt = "/ "
	search.CharLimit = 120

	m := Model{
		journal:         j,
		state:           constants.StateJournal,
		keys:            DefaultKeyMap(),
		help:            help.New(),
		search:          search,
		filter:          models.DefaultFilter(),
		promiseList:     promiselist.New(0, 0, j.Now),
		onboardingModel: onboarding.New(0, 0),
		aboutModel:      about.New(0, 0),
	}
	if !j.HasOnboarded() {
		m.state = constants.StateOnboarding
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case constants.StateOnboarding:
		return []key.Binding{m.keys.Quit}
	case constants.StateAbout:
		return []key.Binding{m.keys.Tab, m.keys.Clear, m.keys.Quit}
	case constants.StateConfirmDelete, constants.StateConfirmClear:
		return []key.Binding{m.keys.Yes, m.keys.No}
	}
	return []key.Binding{m.keys.Tab, m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Search, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case constants.StateJournal:
		actions = []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Search, m.keys.NextStatus, m.keys.Reset}
		if m.result.ShowPersonFilter() {
			actions = append(actions, m.keys.NextPerson)
		}
	case constants.StateAbout:
		actions = []key.Binding{m.keys.Clear}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickClock())
}

// refresh recomputes the derived view and pushes it into the components
func (m *Model) refresh() {
	m.result = m.journal.View(m.filter)

	// A person with no remaining promises cannot stay selected
	if m.filter.Person != constants.FilterAll && !slices.Contains(m.result.People, m.filter.Person) {
		m.filter.Person = constants.FilterAll
		m.result = m.journal.View(m.filter)
	}

	m.promiseList.SetEntries(m.result.Entries)
	m.aboutModel.SetTotal(m.journal.Count())
}

// statusOptions is "All" followed by every status
func statusOptions() []string {
	opts := []string{constants.FilterAll}
	for _, s := range models.AllStatuses() {
		opts = append(opts, s.String())
	}
	return opts
}

// cycle returns the option after (or before) current, wrapping around
func cycle(options []string, current string, step int) string {
	if len(options) == 0 {
		return current
	}
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	n := len(options)
	return options[((i+step)%n+n)%n]
}
