package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	apperrors "github.com/julianstephens/keptword/internal/errors"
	"github.com/julianstephens/keptword/internal/logger"
)

// ShapeValidator checks a serialized value before it is decoded
type ShapeValidator interface {
	Validate(data []byte) error
}

// Option configures a Store
type Option func(*Store)

// WithValidator registers a shape check for the value stored under key.
// Values that fail the check are treated like malformed JSON.
func WithValidator(key string, v ShapeValidator) Option {
	return func(s *Store) {
		s.validators[key] = v
	}
}

// Store holds an in-memory mirror of every slot it has touched and writes
// each mutation through to its Backend before returning.
type Store struct {
	mu         sync.Mutex
	backend    Backend
	values     map[string]any
	defaults   map[string]any
	validators map[string]ShapeValidator
}

// New creates a store over the given backend
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:    backend,
		values:     make(map[string]any),
		defaults:   make(map[string]any),
		validators: make(map[string]ShapeValidator),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the backend
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Close()
}

// Reset removes the durable value for key and restores the in-memory value to
// the default registered for it. Resetting an absent key is not an error.
func (s *Store) Reset(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if def, ok := s.defaults[key]; ok {
		s.values[key] = def
	} else {
		delete(s.values, key)
	}

	if err := s.backend.Remove(key); err != nil && !errors.Is(err, ErrNotFound) {
		logger.Slot(key).Error("Failed to remove slot", "error", err)
		return &apperrors.PersistenceWriteError{Key: key, Err: err}
	}
	logger.Slot(key).Debug("Reset slot")
	return nil
}

func (s *Store) registerDefault(key string, def any) {
	if _, ok := s.defaults[key]; !ok {
		s.defaults[key] = def
	}
}

// Read returns the current value for key. The first read of a key loads it
// from the backend; anything missing, empty or malformed is logged and
// replaced by def. Read never fails.
func Read[T any](s *Store, key string, def T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return read(s, key, def)
}

// Write replaces the in-memory value for key and persists it. A persistence
// failure is returned as a PersistenceWriteError; the in-memory value keeps
// the new value either way.
func Write[T any](s *Store, key string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return write(s, key, value)
}

// Update reads the current value, applies fn and persists the result as one
// step. When fn returns an error nothing is written.
func Update[T any](s *Store, key string, def T, fn func(T) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := read(s, key, def)
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	return next, write(s, key, next)
}

func read[T any](s *Store, key string, def T) T {
	s.registerDefault(key, def)

	if cached, ok := s.values[key]; ok {
		if v, ok := cached.(T); ok {
			return v
		}
		logger.Slot(key).Warn("Slot type changed, reloading", "type", fmt.Sprintf("%T", cached))
	}

	v, err := load(s, key, def)
	if err != nil {
		var de *apperrors.DeserializationError
		if errors.As(err, &de) && errors.Is(de.Err, ErrNotFound) {
			logger.Slot(key).Debug("Slot not persisted yet, using default")
		} else {
			logger.Slot(key).Warn("Falling back to default value", "error", err)
		}
	}
	s.values[key] = v
	return v
}

func load[T any](s *Store, key string, def T) (T, error) {
	data, err := s.backend.Get(key)
	if err != nil {
		reason := "unreadable"
		if errors.Is(err, ErrNotFound) {
			reason = "missing"
		}
		return def, &apperrors.DeserializationError{Key: key, Reason: reason, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return def, &apperrors.DeserializationError{Key: key, Reason: "empty"}
	}

	if v, ok := s.validators[key]; ok {
		if err := v.Validate(data); err != nil {
			return def, &apperrors.DeserializationError{Key: key, Reason: "schema violation", Err: err}
		}
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return def, &apperrors.DeserializationError{Key: key, Reason: "malformed", Err: err}
	}
	return out, nil
}

func write[T any](s *Store, key string, value T) error {
	s.values[key] = value

	data, err := json.Marshal(value)
	if err != nil {
		logger.Slot(key).Error("Failed to serialize slot", "error", err)
		return &apperrors.PersistenceWriteError{Key: key, Err: fmt.Errorf("failed to marshal value: %w", err)}
	}

	if err := s.backend.Set(key, data); err != nil {
		logger.Slot(key).Error("Failed to persist slot", "error", err)
		return &apperrors.PersistenceWriteError{Key: key, Err: err}
	}

	logger.Slot(key).Debug("Persisted slot", "bytes", len(data))
	return nil
}
