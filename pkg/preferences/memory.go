package preferences

import (
	"context"
	"sync"
)

// MemoryStore keeps preferences in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int64)}
}

// Int64 returns the stored value or def.
func (m *MemoryStore) Int64(ctx context.Context, key string, def int64) (int64, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return def, nil
}

// SetInt64 stores value under key.
func (m *MemoryStore) SetInt64(ctx context.Context, key string, value int64) error {
	if key == "" {
		return ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
