// Package memory provides an in-process storage.KV that never touches disk.
package memory

import (
	"context"
	"sync"

	"github.com/xenking/catalog-feed/internal/storage"
)

var _ storage.KV = (*KV)(nil)

// KV is a map-backed key-value store safe for concurrent use.
type KV struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New returns an empty KV.
func New() *KV {
	return &KV{values: make(map[string][]byte)}
}

// Get returns a copy of the value under key.
func (m *KV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *KV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Ping always succeeds.
func (m *KV) Ping(context.Context) error { return nil }
