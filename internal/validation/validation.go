package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "github.com/julianstephens/keptword/internal/errors"
	"github.com/julianstephens/keptword/internal/models"
)

// ConflictType represents the type of integrity problem found in stored data
type ConflictType string

const (
	ConflictDuplicateID      ConflictType = "duplicate_id"
	ConflictMissingField     ConflictType = "missing_field"
	ConflictInvalidStatus    ConflictType = "invalid_status"
	ConflictInvalidDate      ConflictType = "invalid_date"
	ConflictInvalidCreatedAt ConflictType = "invalid_created_at"
)

// Conflict represents a single problem with one or more stored entries
type Conflict struct {
	Type        ConflictType
	Description string
	EntryIDs    []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of the given type
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// ValidateRequest checks a save request before anything is persisted.
// Every offending field is reported in the returned *errors.ValidationError.
func ValidateRequest(req models.SaveRequest) error {
	verr := &apperrors.ValidationError{}

	if strings.TrimSpace(req.PersonName) == "" {
		verr.Add("personName", "is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		verr.Add("description", "is required")
	}

	if strings.TrimSpace(req.FollowUpDate) == "" {
		verr.Add("followUpDate", "is required")
	} else if _, ok := models.ParseDate(req.FollowUpDate); !ok {
		verr.Add("followUpDate", fmt.Sprintf("must be a date (YYYY-MM-DD), got %q", req.FollowUpDate))
	}

	if strings.TrimSpace(req.DateMade) != "" {
		if _, ok := models.ParseDate(req.DateMade); !ok {
			verr.Add("dateMade", fmt.Sprintf("must be a date (YYYY-MM-DD), got %q", req.DateMade))
		}
	}

	if req.Status != "" && !req.Status.Valid() {
		verr.Add("status", fmt.Sprintf("must be one of Pending, Fulfilled, Broken, Unclear, got %q", req.Status))
	}

	return verr.OrNil()
}

// Validator checks stored entries for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateEntries inspects the whole collection. It never modifies entries.
func (v *Validator) ValidateEntries(entries []models.PromiseEntry) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	// Check for duplicate IDs
	idCount := make(map[string]int)
	for _, e := range entries {
		if e.ID != "" {
			idCount[e.ID]++
		}
	}
	var dupes []string
	for id, n := range idCount {
		if n > 1 {
			dupes = append(dupes, id)
		}
	}
	sort.Strings(dupes)
	for _, id := range dupes {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateID,
			Description: fmt.Sprintf("ID %s is used by %d entries", id, idCount[id]),
			EntryIDs:    []string{id},
		})
	}

	for i, e := range entries {
		label := e.ID
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}

		missing := func(field, value string) {
			if strings.TrimSpace(value) == "" {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictMissingField,
					Description: fmt.Sprintf("entry %s has no %s", label, field),
					EntryIDs:    []string{e.ID},
				})
			}
		}
		missing("id", e.ID)
		missing("personName", e.PersonName)
		missing("description", e.Description)

		if !e.Status.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidStatus,
				Description: fmt.Sprintf("entry %s has invalid status %q", label, e.Status),
				EntryIDs:    []string{e.ID},
			})
		}

		for _, d := range []struct{ field, value string }{
			{"dateMade", e.DateMade},
			{"followUpDate", e.FollowUpDate},
		} {
			if _, ok := models.ParseDate(d.value); !ok {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictInvalidDate,
					Description: fmt.Sprintf("entry %s has invalid %s %q", label, d.field, d.value),
					EntryIDs:    []string{e.ID},
				})
			}
		}

		if _, err := time.Parse(time.RFC3339Nano, e.CreatedAt); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidCreatedAt,
				Description: fmt.Sprintf("entry %s has invalid createdAt %q", label, e.CreatedAt),
				EntryIDs:    []string{e.ID},
			})
		}
	}

	return result
}
