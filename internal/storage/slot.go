package storage

// Slot is a typed handle to one key of a Store with its default value
type Slot[T any] struct {
	store *Store
	key   string
	def   T
}

// NewSlot binds key and its default value to the store
func NewSlot[T any](s *Store, key string, def T) *Slot[T] {
	s.mu.Lock()
	s.registerDefault(key, def)
	s.mu.Unlock()

	return &Slot[T]{store: s, key: key, def: def}
}

func (sl *Slot[T]) Get() T {
	return Read(sl.store, sl.key, sl.def)
}

func (sl *Slot[T]) Set(value T) error {
	return Write(sl.store, sl.key, value)
}

func (sl *Slot[T]) Reset() error {
	return sl.store.Reset(sl.key)
}

// Update applies fn to the current value and persists the result
func (sl *Slot[T]) Update(fn func(T) (T, error)) (T, error) {
	return Update(sl.store, sl.key, sl.def, fn)
}
