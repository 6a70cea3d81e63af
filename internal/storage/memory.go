package storage

import (
	"slices"
	"sync"
)

// MemoryStore is an in-process Store, used by tests and --store=memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	// Writes counts successful Set calls
	Writes int

	// Hooks for testing error scenarios
	GetError error
	SetError error
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	if m.GetError != nil {
		return nil, false, m.GetError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return slices.Clone(v), ok, nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	if m.SetError != nil {
		return m.SetError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = slices.Clone(value)
	m.Writes++
	return nil
}

func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// WriteCount returns Writes under the lock.
func (m *MemoryStore) WriteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Writes
}
