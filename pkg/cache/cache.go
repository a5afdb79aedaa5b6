// Package cache stores rendered artifacts keyed by content hash.
//
// Rendering a document graph through Graphviz is the slowest step of the
// render command, and its output depends only on the DOT source and the
// requested format. Artifacts are therefore cached under a key derived from
// a SHA-256 of the DOT text (see [Keyer]). Backends:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a Redis instance shared by several servers
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Get reports a miss with ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
