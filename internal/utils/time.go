package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/keptword/internal/constants"
	"github.com/julianstephens/keptword/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ClockInTimezone returns a clock reporting the current time in timezone
func ClockInTimezone(timezone string) (func() time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}

// Today returns now's calendar date as YYYY-MM-DD
func Today(now time.Time) string {
	return now.Format(constants.DateFormat)
}

// FormatDisplayDate renders a stored date as "Jan 2, 2006".
// Values that do not parse are returned unchanged.
func FormatDisplayDate(s string) string {
	t, ok := models.ParseDate(s)
	if !ok {
		return s
	}
	return t.UTC().Format(constants.DisplayDateFormat)
}

// RelativeDue describes a follow-up date relative to now's calendar day,
// e.g. "due today", "in 3 days", "2 days ago".
func RelativeDue(followUp string, now time.Time) string {
	t, ok := models.ParseDate(followUp)
	if !ok {
		return "no date"
	}

	due := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)

	switch {
	case days == 0:
		return "due today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}
