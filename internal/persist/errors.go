package persist

import (
	"errors"
	"fmt"
)

var (
	ErrQuotaExceeded = errors.New("persist: quota exceeded")
	ErrEncodeFailed  = errors.New("persist: encode failed")
	ErrDecodeFailed  = errors.New("persist: decode failed")
)

// StorageError reports a failed snapshot read or write. The previously
// stored value under Key is left as it was.
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
