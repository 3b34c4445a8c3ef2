package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a promise ID does not match any entry
var ErrNotFound = stderrors.New("promise not found")

// DeserializationError reports that the durable value for a key was missing,
// empty, or not the expected shape. The store recovers from it by falling
// back to the default value.
type DeserializationError struct {
	Key    string
	Reason string
	Err    error
}

func (e *DeserializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to deserialize %q (%s): %v", e.Key, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to deserialize %q (%s)", e.Key, e.Reason)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// PersistenceWriteError reports that the durable medium rejected a write.
// The in-memory value has already been updated when this is returned.
type PersistenceWriteError struct {
	Key string
	Err error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("failed to persist %q: %v", e.Key, e.Err)
}

func (e *PersistenceWriteError) Unwrap() error { return e.Err }

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that made a request invalid
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", f.Field, f.Message))
	}
	return "invalid promise: " + strings.Join(parts, "; ")
}

// Add records a field error
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasField reports whether the given field failed validation
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns nil when no field errors were recorded
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return stderrors.As(err, &ve)
}

// IsPersistence reports whether err is (or wraps) a PersistenceWriteError
func IsPersistence(err error) bool {
	var pe *PersistenceWriteError
	return stderrors.As(err, &pe)
}
