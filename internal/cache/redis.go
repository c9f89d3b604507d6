package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the connection pool to the backing store.
type RedisOptions struct {
	Host     string
	Port     string
	Password string
	SSL      bool
	PoolSize int // maximum concurrent connections; 0 means DefaultPoolSize
}

// DefaultPoolSize bounds the shared connection pool.
const DefaultPoolSize = 20

// RedisBackend implements Backend on top of a go-redis client. The client
// owns one process-wide connection pool; every operation borrows a connection
// and returns it implicitly. Construct it once at startup and inject it;
// there is no package-level singleton.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend dials the store and verifies it with a PING so that an
// unreachable endpoint or rejected credential fails at startup, not on the
// first request.
func NewRedisBackend(ctx context.Context, opts RedisOptions) (*RedisBackend, error) {
	if opts.Host == "" || opts.Port == "" {
		return nil, fmt.Errorf("%w: redis host and port are required", ErrInvalidArgument)
	}

	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}

	ro := &redis.Options{
		Addr:     net.JoinHostPort(opts.Host, opts.Port),
		Password: opts.Password,
		PoolSize: poolSize,
	}
	if opts.SSL {
		ro.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(ro)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrStoreUnavailable, ro.Addr, err)
	}

	return &RedisBackend{rdb: rdb}, nil
}

func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return storeErr("set", err)
	}
	return nil
}

func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := b.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
		}
		return nil, storeErr("get", err)
	}
	return raw, nil
}

func (b *RedisBackend) TTL(ctx context.Context, key string) (*int64, error) {
	d, err := b.rdb.TTL(ctx, key).Result()
	if err != nil {
		return nil, storeErr("ttl", err)
	}
	// go-redis surfaces the protocol sentinels as -1ns and -2ns.
	switch d {
	case -1:
		return nil, nil // key exists, no expiry set
	case -2:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	seconds := int64(d / time.Second)
	return &seconds, nil
}

func (b *RedisBackend) Delete(ctx context.Context, key string) (bool, error) {
	n, err := b.rdb.Del(ctx, key).Result()
	if err != nil {
		return false, storeErr("del", err)
	}
	return n > 0, nil
}

func (b *RedisBackend) Exists(ctx context.Context, key string) (bool, error) {
	n, err := b.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, storeErr("exists", err)
	}
	return n > 0, nil
}

func (b *RedisBackend) Scan(ctx context.Context, pattern string, limit int64) ([]string, error) {
	keys := make([]string, 0, 64)
	var cursor uint64
	for {
		batch, next, err := b.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, storeErr("scan", err)
		}
		keys = append(keys, batch...)
		if limit > 0 && int64(len(keys)) >= limit {
			return keys[:limit], nil
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

func (b *RedisBackend) SetBulk(ctx context.Context, items []BulkItem) error {
	pipe := b.rdb.Pipeline()
	for _, item := range items {
		pipe.Set(ctx, item.Key, item.Value, item.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("pipeline exec", err)
	}
	return nil
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	if err := b.rdb.Ping(ctx).Err(); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func (b *RedisBackend) Close() error {
	return b.rdb.Close()
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
