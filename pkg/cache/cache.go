// Package cache stores layout results so unchanged topologies skip the
// layout engine.
//
// Layout is deterministic: the same request always yields the same SVG, so a
// request hash is a complete key. Three backends are provided:
//
//   - [NullCache] disables caching
//   - [FileCache] keeps entries under a directory (CLI default)
//   - [RedisCache] shares entries between processes (preview server)
//
// Keys are built by a [Keyer] so backends can be namespaced with
// [ScopedKeyer].
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries. Clear
// returns the number of entries removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// TTLLayout is the default lifetime of a cached layout.
const TTLLayout = 7 * 24 * time.Hour
