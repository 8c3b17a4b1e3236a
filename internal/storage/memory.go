package storage

import (
	"context"
	"sync"
)

// Memory keeps values in process memory. Nothing survives a restart, so it
// is meant for tests and throwaway sessions.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}
