// Package kvstore persists named collections as single JSON blobs, the
// storage model the mobile app uses on-device. A key holds one value;
// writers replace the whole value. Update serializes read-modify-write
// cycles per key so concurrent mutations cannot drop each other's write.
package kvstore

import (
	"context"
	"errors"
)

// ErrUnavailable wraps any underlying storage I/O failure. Callers get it
// back as-is; the store never retries on its own.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a durable key/value blob store.
type Store interface {
	// Load returns the value stored under key, or (nil, nil) if the key
	// has never been written.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save atomically replaces the value under key. A concurrent Load
	// observes either the old or the new value, never a torn one.
	Save(ctx context.Context, key string, value []byte) error

	// Update runs fn with the current value (nil if absent) and stores
	// its result, holding the key's write lock for the whole cycle.
	Update(ctx context.Context, key string, fn func(old []byte) ([]byte, error)) error
}
