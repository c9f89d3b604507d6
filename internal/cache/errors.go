package cache

import "errors"

// Error taxonomy for the cache access layer. Callers branch with errors.Is;
// nothing in this package or its consumers matches on error text.
var (
	// ErrInvalidArgument flags bad caller input: empty key, nil data, non-positive TTL.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound means the key is absent: never written, expired, or deleted.
	ErrNotFound = errors.New("key not found")

	// ErrCorruptEntry means a stored value could not be decoded into an envelope.
	ErrCorruptEntry = errors.New("corrupt cache entry")

	// ErrStoreUnavailable covers transport and authentication failures against
	// the backing store, including use after Close.
	ErrStoreUnavailable = errors.New("cache store unavailable")
)
