package repository

import (
	"slices"
	"sync"
)

// MemoryKVRepository keeps blobs in process memory. Used for tests and
// ephemeral runs.
type MemoryKVRepository struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryKVRepository() *MemoryKVRepository {
	return &MemoryKVRepository{entries: make(map[string][]byte)}
}

func (r *MemoryKVRepository) Get(key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return slices.Clone(v), nil
}

func (r *MemoryKVRepository) Set(key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = slices.Clone(value)
	return nil
}

func (r *MemoryKVRepository) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

func (r *MemoryKVRepository) Keys() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}
