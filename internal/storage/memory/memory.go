// Package memory provides a map-backed storage backend
package memory

import (
	"sync"

	"github.com/julianstephens/keptword/internal/storage"
)

type Backend struct {
	mu       sync.Mutex
	data     map[string][]byte
	writeErr error
}

func New() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

// Seed stores raw bytes under key without going through a Store
func (b *Backend) Seed(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), value...)
}

// SetWriteError makes every subsequent Set and Remove fail with err.
// Passing nil restores normal behaviour.
func (b *Backend) SetWriteError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeErr = err
}

func (b *Backend) Get(key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	v, ok := b.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b *Backend) Set(key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.writeErr != nil {
		return b.writeErr
	}
	b.data[key] = append([]byte(nil), value...)
	return nil
}

func (b *Backend) Remove(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.writeErr != nil {
		return b.writeErr
	}
	delete(b.data, key)
	return nil
}

func (b *Backend) Close() error { return nil }

func (b *Backend) Location() string { return "memory" }
