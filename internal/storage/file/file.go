// Package file provides a storage.KV that keeps one file per key inside a
// directory. Writes go to a temporary file first and are renamed into place,
// so a crash mid-write never leaves a truncated value behind.
package file

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/xenking/catalog-feed/internal/storage"
)

const fileExt = ".json"

var _ storage.KV = (*KV)(nil)

// KV stores values as files under dir.
type KV struct {
	dir string
}

// New returns a KV rooted at dir. The directory is created lazily on the
// first write.
func New(dir string) *KV {
	return &KV{dir: dir}
}

// path maps key to a file name. Keys are path-escaped so that separators and
// leading dots cannot escape the directory.
func (s *KV) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." {
		return "", errors.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, url.PathEscape(key)+fileExt), nil
}

// Get reads the file for key.
func (s *KV) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, errors.Wrapf(err, "read %q", key)
	}
	return data, nil
}

// Set atomically replaces the file for key.
func (s *KV) Set(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "create data dir")
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(p)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "write %q", key)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "close %q", key)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "rename %q", key)
	}
	return nil
}

// Ping checks that the data directory can be created and written to.
func (s *KV) Ping(_ context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "create data dir")
	}
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return errors.Wrap(err, "data dir not writable")
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
