package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/journal"
	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/utils"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validDate(optional bool) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			if optional {
				return nil
			}
			return errors.New("date is required")
		}
		if _, ok := models.ParseDate(s); !ok {
			return errors.New("use YYYY-MM-DD")
		}
		return nil
	}
}

// openForm starts the add form, or the edit form when entry is non-nil
func (m *Model) openForm(entry *models.PromiseEntry) tea.Cmd {
	m.promiseForm = &PromiseFormModel{
		DateMade: utils.Today(m.journal.Now()),
		Status:   models.StatusPending,
	}
	m.editingID = ""
	title := "New Promise"
	if entry != nil {
		m.editingID = entry.ID
		m.promiseForm = &PromiseFormModel{
			PersonName:   entry.PersonName,
			Description:  entry.Description,
			DateMade:     entry.DateMade,
			FollowUpDate: entry.FollowUpDate,
			Notes:        entry.Notes,
			Status:       entry.Status,
			RemindMe:     entry.RemindMe,
		}
		title = "Edit Promise"
	}

	f := m.promiseForm
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title+": Person").
				Placeholder("Who made the promise?").
				Value(&f.PersonName).
				Validate(required("person")),
			huh.NewText().
				Title("Commitment").
				Placeholder("What did they promise?").
				Value(&f.Description).
				Validate(required("commitment")),
			huh.NewInput().
				Title("Date Made").
				Placeholder("YYYY-MM-DD").
				Value(&f.DateMade).
				Validate(validDate(true)),
			huh.NewInput().
				Title("Follow up").
				Placeholder("YYYY-MM-DD").
				Value(&f.FollowUpDate).
				Validate(validDate(false)),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Notes (Optional)").
				Value(&f.Notes),
			huh.NewSelect[models.Status]().
				Title("Status").
				Options(huh.NewOptions(models.AllStatuses()...)...).
				Value(&f.Status),
			huh.NewConfirm().
				Title("Remind me to follow up").
				Value(&f.RemindMe),
		),
	).WithTheme(huh.ThemeDracula())

	m.previousState = m.state
	m.state = constants.StateEditing
	return m.form.Init()
}

// savePromise persists the completed form and reports the outcome
func (m *Model) savePromise() tea.Cmd {
	f := m.promiseForm
	req := models.SaveRequest{
		ID:           m.editingID,
		PersonName:   strings.TrimSpace(f.PersonName),
		Description:  strings.TrimSpace(f.Description),
		DateMade:     strings.TrimSpace(f.DateMade),
		FollowUpDate: strings.TrimSpace(f.FollowUpDate),
		Notes:        strings.TrimSpace(f.Notes),
		Status:       f.Status,
		RemindMe:     f.RemindMe,
	}

	op := journal.OpFor(req)
	_, err := m.journal.Save(req)

	m.closeForm()
	m.refresh()
	return m.notify(journal.NotificationFor(op, err))
}

func (m *Model) closeForm() {
	m.form = nil
	m.promiseForm = nil
	m.editingID = ""
	m.state = m.previousState
}
