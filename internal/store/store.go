// Package store provides the local key-value backends that hold the
// client's JSON snapshots. Every Set is a whole-value overwrite.
package store

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// Backend is a flat string-keyed byte store.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Keys lists stored keys with the given prefix, in key order.
	Keys(prefix string) ([]string, error)
	// Usage reports the bytes held, counted as len(key)+len(value).
	Usage() (int64, error)
	Close() error
}

// Kind names a Backend implementation.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindPebble Kind = "pebble"
	KindMemory Kind = "memory"
)

// Options selects and locates a backend.
type Options struct {
	Kind Kind
	// Path is the sqlite file for KindSQLite or the directory for KindPebble.
	Path string
}

// Open opens the backend named by opts. The sqlite schema is migrated
// before returning.
func Open(opts Options) (Backend, error) {
	switch opts.Kind {
	case KindSQLite, "":
		db, err := OpenSQLite(opts.Path)
		if err != nil {
			return nil, err
		}
		if _, err := db.Migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	case KindPebble:
		if err := os.MkdirAll(opts.Path, 0700); err != nil {
			return nil, fmt.Errorf("create kv dir: %w", err)
		}
		return OpenPebble(opts.Path)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Kind)
	}
}
