package insights

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/keptword/internal/models"
	"github.com/julianstephens/keptword/internal/view"
)

// SuggestionType represents the kind of follow-up habit suggested for a person
type SuggestionType string

const (
	SuggestShorterFollowUp SuggestionType = "shorter_follow_up"
	SuggestResolveUnclear  SuggestionType = "resolve_unclear"
	SuggestCheckInNow      SuggestionType = "check_in_now"
)

// DefaultHistoryLimit is how many resolved promises per person are considered
const DefaultHistoryLimit = 10

// Suggestion is a nudge derived from how someone's promises turned out
type Suggestion struct {
	Person        string         `json:"person"`
	Type          SuggestionType `json:"type"`
	Reason        string         `json:"reason"`
	CurrentDays   int            `json:"current_days,omitempty"`
	SuggestedDays int            `json:"suggested_days,omitempty"`
}

// Summary counts one person's promises by outcome
type Summary struct {
	Person      string       `json:"person"`
	Total       int          `json:"total"`
	Pending     int          `json:"pending"`
	Fulfilled   int          `json:"fulfilled"`
	Broken      int          `json:"broken"`
	Unclear     int          `json:"unclear"`
	Overdue     int          `json:"overdue"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// KeptRate is fulfilled over fulfilled plus broken, and false when neither
// outcome has been recorded yet.
func (s Summary) KeptRate() (float64, bool) {
	decided := s.Fulfilled + s.Broken
	if decided == 0 {
		return 0, false
	}
	return float64(s.Fulfilled) / float64(decided) * 100, true
}

// Source is anything that can list entries and tell the time
type Source interface {
	Entries() []models.PromiseEntry
	Now() time.Time
}

// Analyzer summarizes promise outcomes and suggests follow-up changes
type Analyzer struct {
	source Source
}

func NewAnalyzer(source Source) *Analyzer {
	return &Analyzer{source: source}
}

// AnalyzePerson summarizes the promises made by person. Only the most recent
// historyLimit resolved promises feed the suggestions.
func (a *Analyzer) AnalyzePerson(person string, historyLimit int) Summary {
	now := a.source.Now()
	s := Summary{Person: person}

	var resolved []models.PromiseEntry
	for _, e := range a.source.Entries() {
		if e.PersonName != person {
			continue
		}
		s.Total++
		switch e.Status {
		case models.StatusFulfilled:
			s.Fulfilled++
		case models.StatusBroken:
			s.Broken++
		case models.StatusUnclear:
			s.Unclear++
		default:
			s.Pending++
		}
		if view.IsOverdue(e, now) {
			s.Overdue++
		}
		if e.Status != models.StatusPending {
			resolved = append(resolved, e)
		}
	}

	s.Suggestions = suggest(person, recent(resolved, historyLimit), s.Overdue)
	return s
}

// AnalyzeAll summarizes every person in name order
func (a *Analyzer) AnalyzeAll(historyLimit int) []Summary {
	people := view.People(a.source.Entries())[1:]
	summaries := make([]Summary, 0, len(people))
	for _, p := range people {
		summaries = append(summaries, a.AnalyzePerson(p, historyLimit))
	}
	return summaries
}

// recent keeps the limit entries with the latest follow-up dates
func recent(entries []models.PromiseEntry, limit int) []models.PromiseEntry {
	slices.SortStableFunc(entries, func(a, b models.PromiseEntry) int {
		return cmp.Compare(b.FollowUpDate, a.FollowUpDate)
	})
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func suggest(person string, history []models.PromiseEntry, overdue int) []Suggestion {
	var suggestions []Suggestion

	if overdue >= 2 {
		suggestions = append(suggestions, Suggestion{
			Person: person,
			Type:   SuggestCheckInNow,
			Reason: fmt.Sprintf("%d pending promises are past their follow-up date", overdue),
		})
	}

	if len(history) == 0 {
		return suggestions
	}

	broken, unclear := 0, 0
	for _, e := range history {
		switch e.Status {
		case models.StatusBroken:
			broken++
		case models.StatusUnclear:
			unclear++
		}
	}
	total := len(history)
	brokenPercent := float64(broken) / float64(total) * 100
	unclearPercent := float64(unclear) / float64(total) * 100

	// More than half broken: follow up sooner after the promise is made
	if brokenPercent > 50 {
		sg := Suggestion{
			Person: person,
			Type:   SuggestShorterFollowUp,
			Reason: fmt.Sprintf("%.0f%% of recent promises were broken", brokenPercent),
		}
		if lead, ok := averageLeadDays(history); ok {
			sg.CurrentDays = lead
			sg.SuggestedDays = max(lead*3/4, 1)
		}
		suggestions = append(suggestions, sg)
	}

	if unclear >= 3 || unclearPercent > 40 {
		suggestions = append(suggestions, Suggestion{
			Person: person,
			Type:   SuggestResolveUnclear,
			Reason: fmt.Sprintf("%.0f%% of recent outcomes are unclear", unclearPercent),
		})
	}

	return suggestions
}

// averageLeadDays is the mean number of days between the promise and its follow-up
func averageLeadDays(entries []models.PromiseEntry) (int, bool) {
	sum, n := 0, 0
	for _, e := range entries {
		made, ok1 := models.ParseDate(e.DateMade)
		follow, ok2 := e.FollowUpTime()
		if !ok1 || !ok2 || follow.Before(made) {
			continue
		}
		sum += int(follow.Sub(made).Hours() / 24)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / n, true
}
