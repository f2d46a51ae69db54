package storage

import (
	"context"
	"sync"
)

var _ Bridge = (*Memory)(nil)

// Memory is a Bridge held entirely in process memory. It backs tests and
// ephemeral sessions where durability is not wanted.
type Memory struct {
	mu         sync.RWMutex
	partitions map[string]map[string][]byte
}

// NewMemory creates an empty in-memory bridge.
func NewMemory() *Memory {
	return &Memory{partitions: make(map[string]map[string][]byte)}
}

// Save stores a copy of data under (identityID, key).
func (m *Memory) Save(_ context.Context, identityID, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	part, ok := m.partitions[identityID]
	if !ok {
		part = make(map[string][]byte)
		m.partitions[identityID] = part
	}
	part[key] = append([]byte(nil), data...)
	return nil
}

// Load returns a copy of the stored document or ErrNotFound.
func (m *Memory) Load(_ context.Context, identityID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.partitions[identityID][key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Clear removes the document if present.
func (m *Memory) Clear(_ context.Context, identityID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.partitions[identityID], key)
	return nil
}
