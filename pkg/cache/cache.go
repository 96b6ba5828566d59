// Package cache provides response caching for the asset fetch path.
//
// Fetched atlas images are cached keyed by URL so repeated fetches skip
// the network. Three backends implement the same interface:
//
//   - [FileCache]: entries on disk under the user cache directory, the
//     default for interactive use
//   - [RedisCache]: entries in a shared Redis server, for CI runners that
//     fetch the same assets in parallel
//   - [NullCache]: no storage at all, for --no-cache runs and tests
//
// The combine operation itself never reads or writes the cache; every
// combine run recomputes its output from the input files.
package cache

import (
	"context"
	"time"
)

// Cache stores fetched response bodies keyed by string.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// present and fresh; expired or absent entries are a miss, not an
	// error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A ttl of 0 means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
