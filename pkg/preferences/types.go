package preferences

import (
	"context"
	"errors"
)

// Store is a durable scalar key/value store.
// Implementations must be safe for concurrent use.
type Store interface {
	// Int64 returns the value stored under key, or def if the key is absent.
	Int64(ctx context.Context, key string, def int64) (int64, error)

	// SetInt64 durably stores value under key.
	SetInt64(ctx context.Context, key string, value int64) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrEmptyKey is returned when a key is empty.
var ErrEmptyKey = errors.New("preference key cannot be empty")
