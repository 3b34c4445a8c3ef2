package models

import (
	"fmt"
	"strings"
)

// Status is the outcome of a promise. It is a closed set of exactly four values.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusFulfilled Status = "Fulfilled"
	StatusBroken    Status = "Broken"
	StatusUnclear   Status = "Unclear"
)

// AllStatuses returns every status in display order
func AllStatuses() []Status {
	return []Status{StatusPending, StatusFulfilled, StatusBroken, StatusUnclear}
}

// Valid reports whether s is one of the four known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusFulfilled, StatusBroken, StatusUnclear:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus accepts a status name in any letter case
func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses() {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (expected one of Pending, Fulfilled, Broken, Unclear)", s)
}
