// Package persist snapshots named JSON documents into a store.Backend.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/matheus3301/modernchat/internal/store"
)

// Validator is implemented by snapshot types that can check their own
// shape after decoding.
type Validator interface {
	Validate() error
}

// Entry is one domain written by SaveAll.
type Entry struct {
	Key   string
	Value any
}

// Adapter reads and writes JSON snapshots. A non-zero quota caps the
// total bytes held by the backend.
type Adapter struct {
	mu      sync.Mutex
	backend store.Backend
	quota   int64
	logger  *zap.Logger
}

// New creates an Adapter. quota <= 0 disables the limit.
func New(backend store.Backend, quota int64, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{backend: backend, quota: quota, logger: logger}
}

// Save encodes value and replaces whatever is stored under key. On any
// failure the prior value is untouched and a *StorageError is returned.
func (a *Adapter) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return a.fail(key, "save", fmt.Errorf("%w: %v", ErrEncodeFailed, err))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.quota > 0 {
		if err := a.checkQuota(key, data); err != nil {
			return a.fail(key, "save", err)
		}
	}
	if err := a.backend.Set(key, data); err != nil {
		return a.fail(key, "save", err)
	}
	return nil
}

func (a *Adapter) checkQuota(key string, data []byte) error {
	used, err := a.backend.Usage()
	if err != nil {
		return err
	}
	old, err := a.backend.Get(key)
	switch {
	case err == nil:
		used -= int64(len(key) + len(old))
	case !errors.Is(err, store.ErrNotFound):
		return err
	}
	if need := used + int64(len(key)+len(data)); need > a.quota {
		return fmt.Errorf("%w: need %d of %d bytes", ErrQuotaExceeded, need, a.quota)
	}
	return nil
}

// Load decodes the value under key into dst. A missing key reports
// (false, nil). Corrupt or invalid data reports (false, *StorageError)
// and the caller falls back to its default.
func (a *Adapter) Load(key string, dst any) (bool, error) {
	data, err := a.backend.Get(key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, a.fail(key, "load", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, a.fail(key, "load", fmt.Errorf("%w: %v", ErrDecodeFailed, err))
	}
	if v, ok := dst.(Validator); ok {
		if err := v.Validate(); err != nil {
			return false, a.fail(key, "load", fmt.Errorf("%w: %v", ErrDecodeFailed, err))
		}
	}
	return true, nil
}

// Remove deletes key. Removing a missing key is not an error.
func (a *Adapter) Remove(key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.backend.Delete(key); err != nil {
		return a.fail(key, "remove", err)
	}
	return nil
}

// Clear removes every stored key. All keys are attempted.
func (a *Adapter) Clear() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	keys, err := a.backend.Keys("")
	if err != nil {
		return a.fail("*", "clear", err)
	}
	var errs error
	for _, k := range keys {
		if err := a.backend.Delete(k); err != nil {
			errs = multierr.Append(errs, a.fail(k, "clear", err))
		}
	}
	return errs
}

// SaveAll writes every entry. A failing entry does not stop the rest;
// all failures are combined.
func (a *Adapter) SaveAll(entries []Entry) error {
	var errs error
	for _, e := range entries {
		errs = multierr.Append(errs, a.Save(e.Key, e.Value))
	}
	return errs
}

// Usage reports the bytes held by the backend.
func (a *Adapter) Usage() (int64, error) {
	return a.backend.Usage()
}

func (a *Adapter) fail(key, op string, err error) error {
	a.logger.Warn("storage operation failed",
		zap.String("key", key),
		zap.String("op", op),
		zap.Error(err),
	)
	return &StorageError{Key: key, Op: op, Err: err}
}
