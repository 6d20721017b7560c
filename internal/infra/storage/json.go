package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore реализация, сохраняющая данные в JSON-файл.
type JSONStore struct {
	filename string
	mu       sync.Mutex
}

// NewJSONStore создаёт новый JSONStore с указанным файлом.
func NewJSONStore(filename string) (*JSONStore, error) {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir: %w", err)
		}
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		if err := os.WriteFile(filename, []byte("{}"), 0o600); err != nil {
			return nil, fmt.Errorf("failed to create storage file: %w", err)
		}
	}
	return &JSONStore{filename: filename}, nil
}

// load и save вызываются под j.mu
func (j *JSONStore) load() (map[int64]map[string]string, error) {
	data, err := os.ReadFile(j.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", j.filename, err)
	}
	m := make(map[int64]map[string]string)
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", j.filename, err)
	}
	return m, nil
}

func (j *JSONStore) save(m map[int64]map[string]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage: %w", err)
	}
	tmp := j.filename + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	return os.Rename(tmp, j.filename)
}

func (j *JSONStore) Get(_ context.Context, chatID int64, key string) (string, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	m, err := j.load()
	if err != nil {
		return "", false, err
	}
	value, ok := m[chatID][key]
	return value, ok, nil
}

func (j *JSONStore) Set(_ context.Context, chatID int64, key, value string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	m, err := j.load()
	if err != nil {
		return err
	}
	if m[chatID] == nil {
		m[chatID] = make(map[string]string)
	}
	m[chatID][key] = value
	return j.save(m)
}

func (j *JSONStore) Delete(_ context.Context, chatID int64, keys ...string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	m, err := j.load()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(m[chatID], key)
	}
	if len(m[chatID]) == 0 {
		delete(m, chatID)
	}
	return j.save(m)
}

func (j *JSONStore) Close() error { return nil }
