package models

import "github.com/julianstephens/keptword/internal/constants"

// FilterState is the transient search/filter selection. It is never persisted.
type FilterState struct {
	Search string
	Status string // "All" or a Status value
	Person string // "All" or a person name
}

// DefaultFilter returns the session-start filter that matches everything
func DefaultFilter() FilterState {
	return FilterState{
		Search: "",
		Status: constants.FilterAll,
		Person: constants.FilterAll,
	}
}

// Active reports whether any part of the filter narrows the view
func (f FilterState) Active() bool {
	return f.Search != "" ||
		(f.Status != "" && f.Status != constants.FilterAll) ||
		(f.Person != "" && f.Person != constants.FilterAll)
}
