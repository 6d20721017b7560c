package storage

import (
	"context"
	"sync"
)

// MemoryStore in-memory реализация, данные теряются при перезапуске
type MemoryStore struct {
	data map[int64]map[string]string
	mu   sync.RWMutex
}

// NewMemoryStore создаёт новый MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[int64]map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, chatID int64, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[chatID][key]
	return value, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, chatID int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[chatID] == nil {
		m.data[chatID] = make(map[string]string)
	}
	m.data[chatID][key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, chatID int64, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data[chatID], key)
	}
	if len(m.data[chatID]) == 0 {
		delete(m.data, chatID)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
