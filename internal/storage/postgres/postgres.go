// Package postgres provides a storage.KV backed by a single PostgreSQL table.
package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/catalog-feed/db"
	"github.com/xenking/catalog-feed/internal/storage"
)

const (
	getValueSQL = `SELECT value FROM kv WHERE key = $1`

	setValueSQL = `INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

var _ storage.KV = (*KV)(nil)

// NewPool creates a pgxpool.Pool for the given connection URL.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, db.Schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// KV implements storage.KV on top of the kv table.
type KV struct {
	pool *pgxpool.Pool
}

// New returns a KV that uses the given pool.
func New(pool *pgxpool.Pool) *KV {
	return &KV{pool: pool}
}

// Get returns the JSON document stored under key.
func (r *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.pool.QueryRow(ctx, getValueSQL, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("getting key %q: %w", key, err)
	}
	return value, nil
}

// Set upserts the JSON document under key. The value must be valid JSON.
func (r *KV) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.pool.Exec(ctx, setValueSQL, key, value)
	if err != nil {
		return fmt.Errorf("setting key %q: %w", key, err)
	}
	return nil
}

// Ping checks database connectivity.
func (r *KV) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
