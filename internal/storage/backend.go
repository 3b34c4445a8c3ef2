// Package storage implements the persisted collection store: a key-value
// addressed state holder that keeps an in-memory mirror of each slot in sync
// with a durable Backend.
package storage

import "errors"

// ErrNotFound is returned by a Backend when no value is stored under a key
var ErrNotFound = errors.New("key not found")

// Backend is a durable key-value medium. Values are opaque serialized bytes.
//
// Remove must be idempotent: removing an absent key is not an error.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Close() error

	// Location returns a non-sensitive description of where data lives
	Location() string
}
