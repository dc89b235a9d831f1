package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidEntry indicates a stored payload could not be decoded
	ErrInvalidEntry = errors.New("invalid cache entry")
)

// DefaultTTL is the lifetime of a cached result page.
const DefaultTTL = 5 * time.Minute

// Store is a byte-oriented key/value store with per-entry expiry.
//
// Get returns ErrCacheMiss when the key is absent or expired. Any other error
// is a store failure.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}
