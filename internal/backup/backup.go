// Package backup exports and imports the saved set as gzip-compressed JSON.
package backup

import (
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"

	"github.com/xenking/catalog-feed/internal/domain/product"
)

// maxSize bounds the decompressed size of an imported backup.
const maxSize = 32 << 20

// ErrTooLarge is returned when a backup exceeds maxSize once decompressed.
var ErrTooLarge = errors.New("backup too large")

// Export writes items to w as a gzip-compressed JSON document:
//
//	{"exported_at":"<RFC 3339>","savedItems":[...]}
func Export(w io.Writer, items []product.Product, now time.Time) error {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.ObjStart()
	e.FieldStart("exported_at")
	e.Str(now.UTC().Format(time.RFC3339))
	e.FieldStart("savedItems")
	e.Raw(product.EncodeList(items))
	e.ObjEnd()

	gz := pgzip.NewWriter(w)
	if _, err := gz.Write(e.Bytes()); err != nil {
		_ = gz.Close()
		return errors.Wrap(err, "write backup")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "close gzip writer")
	}
	return nil
}

// Import reads a backup written by Export. A bare JSON array of products,
// as kept in storage, is accepted as well.
func Import(r io.Reader) ([]product.Product, error) {
	gz, err := pgzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "create gzip reader")
	}
	defer func() { _ = gz.Close() }()

	data, err := io.ReadAll(io.LimitReader(gz, maxSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read backup")
	}
	if len(data) > maxSize {
		return nil, ErrTooLarge
	}

	d := jx.DecodeBytes(data)
	switch d.Next() {
	case jx.Array:
		items, err := product.DecodeList(d)
		if err != nil {
			return nil, errors.Wrap(err, "decode items")
		}
		return items, nil
	case jx.Object:
		var items []product.Product
		if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
			if string(key) != "savedItems" {
				return d.Skip()
			}
			var err error
			items, err = product.DecodeList(d)
			return err
		}); err != nil {
			return nil, errors.Wrap(err, "decode backup")
		}
		return items, nil
	default:
		return nil, errors.New("decode backup: unexpected document")
	}
}
