// Package view derives what the journal shows from the stored entries: the
// person list, the filtered and ordered entries, and the overdue count.
package view

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/models"
)

// Result is everything a surface needs to render the journal
type Result struct {
	// People is "All" followed by every distinct person name in byte order
	People  []string
	Entries []models.PromiseEntry
	Overdue int
}

// ShowPersonFilter reports whether person chips are worth showing,
// which needs at least two real people.
func (r Result) ShowPersonFilter() bool {
	return ShowPersonFilter(r.People)
}

// Compute is a pure function of its inputs. The input slice is never modified.
func Compute(entries []models.PromiseEntry, filter models.FilterState, now time.Time) Result {
	return Result{
		People:  People(entries),
		Entries: Filter(entries, filter),
		Overdue: CountOverdue(entries, now),
	}
}

// People returns "All" followed by the distinct person names sorted in byte order
func People(entries []models.PromiseEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.PersonName]; ok {
			continue
		}
		seen[e.PersonName] = struct{}{}
		names = append(names, e.PersonName)
	}
	sort.Strings(names)
	return append([]string{constants.FilterAll}, names...)
}

// ShowPersonFilter is true when people (as returned by People) holds at
// least two names besides "All".
func ShowPersonFilter(people []string) bool {
	return len(people) > 2
}

// Matches reports whether e satisfies every part of the filter
func Matches(e models.PromiseEntry, f models.FilterState) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.PersonName), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) {
			return false
		}
	}
	if !isAll(f.Status) && string(e.Status) != f.Status {
		return false
	}
	if !isAll(f.Person) && e.PersonName != f.Person {
		return false
	}
	return true
}

func isAll(v string) bool {
	return v == "" || v == constants.FilterAll
}

// Filter returns the matching entries ordered by follow-up date, earliest
// first. Ties keep their stored order and unparsable dates go last.
func Filter(entries []models.PromiseEntry, f models.FilterState) []models.PromiseEntry {
	out := make([]models.PromiseEntry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, f) {
			out = append(out, e)
		}
	}

	slices.SortStableFunc(out, compareFollowUp)
	return out
}

func compareFollowUp(a, b models.PromiseEntry) int {
	ta, okA := a.FollowUpTime()
	tb, okB := b.FollowUpTime()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return ta.Compare(tb)
}

// IsOverdue reports whether e is still pending and its follow-up date is
// strictly before now. Entries with an unparsable date are never overdue.
func IsOverdue(e models.PromiseEntry, now time.Time) bool {
	if e.Status != models.StatusPending {
		return false
	}
	t, ok := e.FollowUpTime()
	return ok && t.Before(now)
}

// CountOverdue counts overdue entries across the whole collection,
// regardless of any filter.
func CountOverdue(entries []models.PromiseEntry, now time.Time) int {
	n := 0
	for _, e := range entries {
		if IsOverdue(e, now) {
			n++
		}
	}
	return n
}
