// Package favorites holds favorited recipe items for the alternate feed and
// mirrors them to durable storage under the "@saved_favorites" key.
//
// Favorites are independent of the saved product set: they have a different
// shape, a different key and are never reconciled with it.
package favorites

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/catalog-feed/internal/storage"
	"github.com/xenking/catalog-feed/internal/syncedlist"
)

// StorageKey is the durable storage key of the favorites list.
const StorageKey = "@saved_favorites"

// Item is a favorited entry of the alternate feed.
type Item struct {
	ID            string
	Name          string
	Description   string
	Image         string
	Price         string
	OriginalPrice string
}

// Encode writes i as a JSON object.
func (i Item) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(i.ID)
	e.FieldStart("name")
	e.Str(i.Name)
	e.FieldStart("description")
	e.Str(i.Description)
	e.FieldStart("image")
	e.Str(i.Image)
	e.FieldStart("price")
	e.Str(i.Price)
	e.FieldStart("originalPrice")
	e.Str(i.OriginalPrice)
	e.ObjEnd()
}

// Decode reads i from a JSON object. Numeric ids are accepted and kept in
// their textual form.
func (i *Item) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if d.Next() == jx.Null {
			return d.Null()
		}
		var err error
		switch string(key) {
		case "id":
			i.ID, err = decodeID(d)
		case "name":
			i.Name, err = d.Str()
		case "description":
			i.Description, err = d.Str()
		case "image":
			i.Image, err = d.Str()
		case "price":
			i.Price, err = d.Str()
		case "originalPrice":
			i.OriginalPrice, err = d.Str()
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode %q", key)
		}
		return nil
	})
}

func decodeID(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Number {
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	}
	return d.Str()
}

// EncodeList serializes items as a JSON array.
func EncodeList(items []Item) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, i := range items {
		i.Encode(&e)
	}
	e.ArrEnd()
	return e.Bytes()
}

// DecodeList parses a JSON array of items.
func DecodeList(data []byte) ([]Item, error) {
	var items []Item
	if err := jx.DecodeBytes(data).Arr(func(d *jx.Decoder) error {
		var i Item
		if err := i.Decode(d); err != nil {
			return err
		}
		items = append(items, i)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode favorites")
	}
	return items, nil
}

// Options configures a Store.
type Options struct {
	Logger        *zap.Logger
	MeterProvider metric.MeterProvider
}

// Store is the favorites list: items unique by ID in insertion order.
type Store struct {
	list *syncedlist.List[Item, string]
}

// NewStore creates a Store persisting to kv.
func NewStore(kv storage.KV, opts Options) *Store {
	return &Store{
		list: syncedlist.New(kv, syncedlist.Options[Item, string]{
			Key:           StorageKey,
			ID:            func(i Item) string { return i.ID },
			Encode:        EncodeList,
			Decode:        DecodeList,
			Logger:        opts.Logger,
			MeterProvider: opts.MeterProvider,
		}),
	}
}

// Load reads the favorites from storage; failures leave an empty list.
func (s *Store) Load(ctx context.Context) error {
	return s.list.Load(ctx)
}

// Ready reports whether Load has completed.
func (s *Store) Ready() bool {
	return s.list.State() == syncedlist.StateReady
}

// Toggle adds item if absent and removes it if present. It reports whether
// item is a favorite afterwards.
func (s *Store) Toggle(item Item) bool {
	return s.list.Toggle(item)
}

// IsFavorite reports whether an item with id is a favorite.
func (s *Store) IsFavorite(id string) bool {
	return s.list.Contains(id)
}

// Items returns the favorites in insertion order.
func (s *Store) Items() []Item {
	return s.list.Items()
}

// Flush waits for pending writes.
func (s *Store) Flush(ctx context.Context) error {
	return s.list.Flush(ctx)
}

// Close drains pending writes and stops the background writer.
func (s *Store) Close() error {
	return s.list.Close()
}
