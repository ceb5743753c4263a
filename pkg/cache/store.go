package cache

import (
	"context"
	"errors"
	"time"
)

// NoExpiration is returned by TTL for keys stored without a time-to-live.
const NoExpiration time.Duration = -1

var (
	ErrEmptyKey       = errors.New("cache key must not be empty")
	ErrFailedToEncode = errors.New("failed to encode cache value")
	ErrFailedToDecode = errors.New("failed to decode cache value")
)

// Store is a key-value store with per-key expiry.
type Store interface {
	// Get returns the value and true, or nil and false for a missing or expired key.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Take returns the value of key and removes it in one step. Only one
	// concurrent caller gets true for the same key.
	Take(ctx context.Context, key string) ([]byte, bool, error)
	// TTL returns the remaining lifetime of key, 0 if it is absent,
	// or NoExpiration if it never expires.
	TTL(ctx context.Context, key string) (time.Duration, error)
}
