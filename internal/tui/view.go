package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/view"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateOnboarding:
		return docStyle.Render(m.onboardingModel.View())
	case constants.StateJournal:
		content = m.viewJournal()
	case constants.StateAbout:
		content = docStyle.Render(m.aboutModel.View())
	case constants.StateEditing:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	case constants.StateConfirmClear:
		content = m.viewConfirmClear()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewNotification(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	journalTab := inactiveTabStyle.Render("Promises")
	aboutTab := inactiveTabStyle.Render("About")
	if m.state == constants.StateAbout {
		aboutTab = activeTabStyle.Render("About")
	} else {
		journalTab = activeTabStyle.Render("Promises")
	}

	tabs := lipgloss.JoinHorizontal(lipgloss.Top, journalTab, aboutTab)
	if overdue := view.CountOverdue(m.journal.Entries(), m.journal.Now()); overdue > 0 {
		tabs = lipgloss.JoinHorizontal(lipgloss.Top, tabs, "  ",
			overdueBadgeStyle.Render(fmt.Sprintf("⚠ %d overdue", overdue)))
	}
	return tabs
}

func (m Model) viewNotification() string {
	if m.notification == nil {
		return ""
	}
	if m.notification.IsError() {
		return dangerStyle.Render("❌ " + m.notification.Message)
	}
	return successStyle.Render("✓ " + m.notification.Message)
}

func (m Model) viewJournal() string {
	var b strings.Builder

	if m.searching || m.filter.Search != "" {
		b.WriteString(m.search.View())
	} else {
		b.WriteString(mutedStyle.Render("press / to search"))
	}
	b.WriteString("\n")

	b.WriteString(chips(statusOptions(), m.filter.Status))
	b.WriteString("\n")
	if m.result.ShowPersonFilter() {
		b.WriteString(chips(m.result.People, m.filter.Person))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.promiseList.Len() == 0 {
		if m.filter.Active() {
			b.WriteString(mutedStyle.Render(constants.MsgEmptyFiltered))
		} else {
			b.WriteString(mutedStyle.Render(constants.MsgEmptyJournal))
		}
	} else {
		b.WriteString(m.promiseList.View())
	}

	return docStyle.Render(b.String())
}

func chips(options []string, selected string) string {
	rendered := make([]string, len(options))
	for i, opt := range options {
		if opt == selected {
			rendered[i] = activeChipStyle.Render(opt)
		} else {
			rendered[i] = inactiveChipStyle.Render(opt)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(rendered, " "))
}

func (m Model) viewConfirmDelete() string {
	desc := ""
	if e, err := m.journal.Get(m.promiseToDelete); err == nil {
		desc = fmt.Sprintf("%s: %s", e.PersonName, e.Description)
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this promise?"),
			mutedStyle.Render(desc),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewConfirmClear() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Clear all data?"),
			fmt.Sprintf("This permanently removes all %d promises.", m.journal.Count()),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
