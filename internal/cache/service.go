package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTTL applies when the caller does not request one.
	DefaultTTL = time.Hour

	// DefaultScanLimit caps key listing. Enumeration is a diagnostic scan of
	// the whole namespace, not a hot-path operation.
	DefaultScanLimit = 1000
)

// Entry is a decoded cache entry as returned to callers.
type Entry struct {
	Key         string
	Data        map[string]interface{}
	CachedAt    string
	OriginalTTL int

	// TTLRemaining is the seconds left before expiry; nil means the key has
	// no expiry set. Store sentinels are translated before this point.
	TTLRemaining *int64
}

// Existence is the result of a non-consuming probe.
type Existence struct {
	Exists       bool
	TTLRemaining *int64
}

// Item is one entry of a bulk write.
type Item struct {
	Key  string
	Data map[string]interface{}
	TTL  time.Duration
}

// Service is the cache access layer: it owns envelope encoding, TTL
// semantics, and the error taxonomy, and delegates storage to a Backend.
type Service struct {
	backend Backend
	logger  *zap.Logger
	clock   func() time.Time
}

func NewService(backend Backend, logger *zap.Logger) *Service {
	return &Service{
		backend: backend,
		logger:  logger,
		clock:   time.Now,
	}
}

// Store writes data under key with an atomic set-with-expiry, unconditionally
// replacing any existing entry. It returns the envelope's cached_at stamp and
// the effective TTL.
func (s *Service) Store(ctx context.Context, key string, data map[string]interface{}, ttl time.Duration) (string, time.Duration, error) {
	if err := validateKey(key); err != nil {
		return "", 0, err
	}
	if data == nil {
		return "", 0, fmt.Errorf("%w: data is required", ErrInvalidArgument)
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if ttl < 0 {
		return "", 0, fmt.Errorf("%w: ttl must be positive, got %s", ErrInvalidArgument, ttl)
	}

	now := s.clock()
	raw, err := encodeEnvelope(data, ttl, now)
	if err != nil {
		return "", 0, err
	}

	if err := s.backend.Set(ctx, key, raw, ttl); err != nil {
		return "", 0, err
	}

	s.logger.Debug("stored cache entry",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
	)
	return now.UTC().Format(time.RFC3339Nano), ttl, nil
}

// Get retrieves and decodes the entry under key, along with its remaining TTL.
func (s *Service) Get(ctx context.Context, key string) (*Entry, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		s.logger.Warn("undecodable cache entry", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	remaining, err := s.backend.TTL(ctx, key)
	if err != nil {
		// The key can expire between the read and the TTL probe; treat that
		// window as absent rather than corrupt.
		return nil, err
	}

	return &Entry{
		Key:          key,
		Data:         env.Data,
		CachedAt:     env.CachedAt,
		OriginalTTL:  env.OriginalTTL,
		TTLRemaining: remaining,
	}, nil
}

// Delete removes the entry under key. Deleting an absent key is ErrNotFound,
// not a silent no-op; callers wanting idempotency must tolerate it.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	existed, err := s.backend.Delete(ctx, key)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return nil
}

// Exists probes for key without consuming it, reporting the remaining TTL
// when present.
func (s *Service) Exists(ctx context.Context, key string) (*Existence, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	exists, err := s.backend.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &Existence{Exists: false}, nil
	}

	remaining, err := s.backend.TTL(ctx, key)
	if err != nil {
		if IsNotFound(err) {
			// Expired between the probe and the TTL read.
			return &Existence{Exists: false}, nil
		}
		return nil, err
	}
	return &Existence{Exists: true, TTLRemaining: remaining}, nil
}

// List enumerates keys matching a glob pattern, capped at DefaultScanLimit.
// This walks the store's whole key namespace and is intended for diagnostics.
func (s *Service) List(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	return s.backend.Scan(ctx, pattern, DefaultScanLimit)
}

// StoreBulk encodes each item with its own TTL and cached_at stamp and
// submits all writes as one pipelined round trip. The batch is not atomic:
// on a mid-pipeline failure a prefix of items may be written and the rest
// absent, and the error carries no per-item detail.
func (s *Service) StoreBulk(ctx context.Context, items []Item) ([]string, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidArgument)
	}

	now := s.clock()
	bulk := make([]BulkItem, 0, len(items))
	keys := make([]string, 0, len(items))

	for _, item := range items {
		if err := validateKey(item.Key); err != nil {
			return nil, err
		}
		if item.Data == nil {
			return nil, fmt.Errorf("%w: data is required for key %q", ErrInvalidArgument, item.Key)
		}
		ttl := item.TTL
		if ttl == 0 {
			ttl = DefaultTTL
		}
		if ttl < 0 {
			return nil, fmt.Errorf("%w: ttl must be positive for key %q", ErrInvalidArgument, item.Key)
		}

		raw, err := encodeEnvelope(item.Data, ttl, now)
		if err != nil {
			return nil, err
		}
		bulk = append(bulk, BulkItem{Key: item.Key, Value: raw, TTL: ttl})
		keys = append(keys, item.Key)
	}

	if err := s.backend.SetBulk(ctx, bulk); err != nil {
		return nil, err
	}

	s.logger.Debug("stored bulk cache entries", zap.Int("count", len(keys)))
	return keys, nil
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// IsNotFound reports whether err is the absent-key condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidArgument)
	}
	return nil
}
