package cache

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
	hasExpiry bool
}

// MemoryBackend is an in-process Backend used by tests and local development.
// Expiry is enforced lazily on access; there is no background sweeper.
type MemoryBackend struct {
	mu     sync.RWMutex
	items  map[string]memoryItem
	closed bool
	now    func() time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("%w: backend closed", ErrStoreUnavailable)
	}

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
		item.hasExpiry = true
	}
	m.items[key] = item
	return nil
}

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, fmt.Errorf("%w: backend closed", ErrStoreUnavailable)
	}

	item, ok := m.live(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return item.value, nil
}

func (m *MemoryBackend) TTL(ctx context.Context, key string) (*int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.live(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if !item.hasExpiry {
		return nil, nil
	}
	seconds := int64(item.expiresAt.Sub(m.now()) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return &seconds, nil
}

func (m *MemoryBackend) Delete(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.live(key)
	delete(m.items, key)
	return ok, nil
}

func (m *MemoryBackend) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.live(key)
	return ok, nil
}

func (m *MemoryBackend) Scan(ctx context.Context, pattern string, limit int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.items))
	for key := range m.items {
		if _, ok := m.live(key); !ok {
			continue
		}
		matched, err := path.Match(pattern, key)
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q", ErrInvalidArgument, pattern)
		}
		if matched {
			keys = append(keys, key)
			if limit > 0 && int64(len(keys)) >= limit {
				break
			}
		}
	}
	return keys, nil
}

func (m *MemoryBackend) SetBulk(ctx context.Context, items []BulkItem) error {
	for _, item := range items {
		if err := m.Set(ctx, item.Key, item.Value, item.TTL); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryBackend) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("%w: backend closed", ErrStoreUnavailable)
	}
	return nil
}

func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.items = nil
	return nil
}

// live returns the item if present and unexpired, dropping it when expired.
// Callers must hold the write lock.
func (m *MemoryBackend) live(key string) (memoryItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return memoryItem{}, false
	}
	if item.hasExpiry && m.now().After(item.expiresAt) {
		delete(m.items, key)
		return memoryItem{}, false
	}
	return item, true
}
