package models

import (
	"strings"
	"time"

	"github.com/julianstephens/keptword/internal/constants"
)

// PromiseEntry is one commitment someone made to the user.
// The JSON field names are the persisted format and must not change.
type PromiseEntry struct {
	ID           string `json:"id"`
	PersonName   string `json:"personName"`
	Description  string `json:"description"`
	DateMade     string `json:"dateMade"`     // YYYY-MM-DD
	FollowUpDate string `json:"followUpDate"` // YYYY-MM-DD
	Notes        string `json:"notes,omitempty"`
	Status       Status `json:"status"`
	RemindMe     bool   `json:"remindMe"`
	CreatedAt    string `json:"createdAt"` // RFC3339 timestamp, set once
}

// FollowUpTime parses FollowUpDate. See ParseDate for the accepted formats.
func (p PromiseEntry) FollowUpTime() (time.Time, bool) {
	return ParseDate(p.FollowUpDate)
}

// SaveRequest carries every mutable field of an entry.
// An empty ID creates a new entry, a non-empty ID updates an existing one.
type SaveRequest struct {
	ID           string
	PersonName   string
	Description  string
	DateMade     string
	FollowUpDate string
	Notes        string
	Status       Status
	RemindMe     bool
}

// IsUpdate reports whether the request targets an existing entry
func (r SaveRequest) IsUpdate() bool {
	return strings.TrimSpace(r.ID) != ""
}

// RequestFromEntry builds a SaveRequest that would leave the entry unchanged
func RequestFromEntry(p PromiseEntry) SaveRequest {
	return SaveRequest{
		ID:           p.ID,
		PersonName:   p.PersonName,
		Description:  p.Description,
		DateMade:     p.DateMade,
		FollowUpDate: p.FollowUpDate,
		Notes:        p.Notes,
		Status:       p.Status,
		RemindMe:     p.RemindMe,
	}
}

// ParseDate interprets an ISO calendar date as midnight UTC of that day,
// and also accepts full RFC3339 timestamps.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(constants.DateFormat, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
