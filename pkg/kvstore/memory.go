package kvstore

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mutex  sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.values[key] = value

	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.values, key)

	return nil
}

func (m *MemoryStore) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.values)
}
