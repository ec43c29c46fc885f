package blob

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a store key.
const MaxKeyLength = 512

// Sentinel errors for store operations.
var (
	ErrInvalidKey = errors.New("blob: key is invalid")
	ErrKeyTooLong = errors.New("blob: key exceeds max length")
)

// Store is an asynchronous key/value blob store used to persist cache
// snapshots across process restarts.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: methods must honor cancellation/deadlines where applicable.
//   - Errors: Get returns (nil, false, nil) on a clean miss; errors are
//     reserved for backend failures.
type Store interface {
	// Get retrieves a stored blob. The bool reports whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a blob, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a blob. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error
}

// ValidateKey checks if a key is valid for storage.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
