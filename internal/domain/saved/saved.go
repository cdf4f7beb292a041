// Package saved holds the user's bookmarked products and mirrors them to
// durable storage under the "savedItems" key.
package saved

import (
	"context"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/catalog-feed/internal/domain/product"
	"github.com/xenking/catalog-feed/internal/storage"
	"github.com/xenking/catalog-feed/internal/syncedlist"
)

// StorageKey is the durable storage key of the saved set.
const StorageKey = "savedItems"

// Options configures a Store.
type Options struct {
	Logger        *zap.Logger
	MeterProvider metric.MeterProvider
}

// Store is the saved set: products unique by ID, in the order they were saved.
type Store struct {
	list *syncedlist.List[product.Product, int]
}

// NewStore creates a Store persisting to kv. Call Load before use and Close
// when done.
func NewStore(kv storage.KV, opts Options) *Store {
	return &Store{
		list: syncedlist.New(kv, syncedlist.Options[product.Product, int]{
			Key:           StorageKey,
			ID:            func(p product.Product) int { return p.ID },
			Encode:        product.EncodeList,
			Decode:        decode,
			Logger:        opts.Logger,
			MeterProvider: opts.MeterProvider,
		}),
	}
}

func decode(data []byte) ([]product.Product, error) {
	return product.DecodeList(jx.DecodeBytes(data))
}

// Load reads the saved set from storage. See syncedlist.List.Load for the
// failure semantics: the store is always usable afterwards.
func (s *Store) Load(ctx context.Context) error {
	return s.list.Load(ctx)
}

// Ready reports whether Load has completed.
func (s *Store) Ready() bool {
	return s.list.State() == syncedlist.StateReady
}

// Save bookmarks p. It reports false if a product with the same ID is
// already saved.
func (s *Store) Save(p product.Product) bool {
	return s.list.Add(p)
}

// Unsave removes every entry with the given ID and reports whether anything
// was removed.
func (s *Store) Unsave(id int) bool {
	return s.list.Remove(id) > 0
}

// Toggle saves p if it is not saved and unsaves it otherwise. It reports
// whether p is saved afterwards.
func (s *Store) Toggle(p product.Product) bool {
	return s.list.Toggle(p)
}

// IsSaved reports whether a product with id is saved.
func (s *Store) IsSaved(id int) bool {
	return s.list.Contains(id)
}

// Get returns the saved product with id.
func (s *Store) Get(id int) (product.Product, bool) {
	return s.list.Get(id)
}

// Items returns the saved products in insertion order.
func (s *Store) Items() []product.Product {
	return s.list.Items()
}

// Flush waits for pending writes and returns the first write error since the
// previous Flush.
func (s *Store) Flush(ctx context.Context) error {
	return s.list.Flush(ctx)
}

// Close drains pending writes and stops the background writer.
func (s *Store) Close() error {
	return s.list.Close()
}
