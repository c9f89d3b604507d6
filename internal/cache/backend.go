package cache

import (
	"context"
	"time"
)

// BulkItem is one pre-encoded write in a pipelined batch.
type BulkItem struct {
	Key   string
	Value []byte
	TTL   time.Duration
}

// Backend is the narrow contract the access layer needs from the backing
// store. Implementations must be safe for concurrent use.
type Backend interface {
	// Set writes value under key with an atomic set-with-expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the raw value, or ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// TTL reports the remaining lifetime in seconds. A nil result means the
	// key exists but has no expiry; ErrNotFound means the key is absent.
	// Store-level sentinels (-1, -2) never escape the implementation.
	TTL(ctx context.Context, key string) (*int64, error)

	// Delete removes key and reports whether it previously existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists is a non-consuming existence probe.
	Exists(ctx context.Context, key string) (bool, error)

	// Scan enumerates up to limit keys matching a glob pattern. This is an
	// unindexed namespace walk intended for diagnostics only.
	Scan(ctx context.Context, pattern string, limit int64) ([]string, error)

	// SetBulk submits all writes as one pipelined round trip. The batch is
	// not atomic: a mid-pipeline failure can leave a prefix of items written.
	SetBulk(ctx context.Context, items []BulkItem) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases all pooled connections. Operations after Close fail fast
	// with ErrStoreUnavailable.
	Close() error
}
