// Package storage defines the durable key-value contract used to persist
// saved items and favorites.
package storage

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is a durable string-keyed blob store with last-write-wins semantics.
type KV interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Ping reports whether the backend is reachable and writable.
	Ping(ctx context.Context) error
}

// Backend names accepted by configuration.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)
