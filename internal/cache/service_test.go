package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockBackend is a mock implementation of Backend for error-path tests.
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockBackend) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBackend) TTL(ctx context.Context, key string) (*int64, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockBackend) Delete(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockBackend) Scan(ctx context.Context, pattern string, limit int64) ([]string, error) {
	args := m.Called(ctx, pattern, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBackend) SetBulk(ctx context.Context, items []BulkItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockBackend) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestService() *Service {
	return NewService(NewMemoryBackend(), zap.NewNop())
}

func TestStoreThenGet(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	data := map[string]interface{}{"a": float64(1)}
	cachedAt, ttl, err := svc.Store(ctx, "acct-1", data, 2*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, ttl)

	entry, err := svc.Get(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, data, entry.Data)
	assert.Equal(t, cachedAt, entry.CachedAt)
	assert.Equal(t, 2, entry.OriginalTTL)
	require.NotNil(t, entry.TTLRemaining)
	assert.LessOrEqual(t, *entry.TTLRemaining, int64(2))
	assert.GreaterOrEqual(t, *entry.TTLRemaining, int64(0))
}

func TestStore_DefaultTTL(t *testing.T) {
	svc := newTestService()

	_, ttl, err := svc.Store(context.Background(), "k", map[string]interface{}{}, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, ttl)
}

func TestStore_Overwrite(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.Store(ctx, "k", map[string]interface{}{"v": "old"}, time.Minute)
	require.NoError(t, err)
	_, _, err = svc.Store(ctx, "k", map[string]interface{}{"v": "new"}, time.Minute)
	require.NoError(t, err)

	entry, err := svc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", entry.Data["v"])
}

func TestStore_InvalidArguments(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.Store(ctx, "", map[string]interface{}{}, time.Minute)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, _, err = svc.Store(ctx, "k", nil, time.Minute)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, _, err = svc.Store(ctx, "k", map[string]interface{}{}, -time.Second)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestGet_NeverStored(t *testing.T) {
	svc := newTestService()

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGet_Expired(t *testing.T) {
	backend := NewMemoryBackend()
	now := time.Now()
	backend.now = func() time.Time { return now }
	svc := NewService(backend, zap.NewNop())
	ctx := context.Background()

	_, _, err := svc.Store(ctx, "acct-1", map[string]interface{}{"a": float64(1)}, 2*time.Second)
	require.NoError(t, err)

	now = now.Add(3 * time.Second)

	_, err = svc.Get(ctx, "acct-1")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGet_CorruptEntry(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), "bad", []byte("{garbage"), time.Minute))

	svc := NewService(backend, zap.NewNop())
	_, err := svc.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptEntry))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestGet_NoExpirySentinelTranslated(t *testing.T) {
	backend := new(MockBackend)
	raw, err := encodeEnvelope(map[string]interface{}{"a": float64(1)}, time.Minute, time.Now())
	require.NoError(t, err)

	backend.On("Get", mock.Anything, "forever").Return(raw, nil)
	// Backend already translated the store's -1 into nil.
	backend.On("TTL", mock.Anything, "forever").Return(nil, nil)

	svc := NewService(backend, zap.NewNop())
	entry, err := svc.Get(context.Background(), "forever")
	require.NoError(t, err)
	assert.Nil(t, entry.TTLRemaining)
}

func TestDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, _, err := svc.Store(ctx, "k", map[string]interface{}{}, time.Minute)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "k"))

	_, err = svc.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrNotFound))

	// Deleting again is NotFound, not a silent no-op.
	err = svc.Delete(ctx, "k")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestExists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	probe, err := svc.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, probe.Exists)
	assert.Nil(t, probe.TTLRemaining)

	_, _, err = svc.Store(ctx, "yes", map[string]interface{}{}, 60*time.Second)
	require.NoError(t, err)

	probe, err = svc.Exists(ctx, "yes")
	require.NoError(t, err)
	assert.True(t, probe.Exists)
	require.NotNil(t, probe.TTLRemaining)
	assert.LessOrEqual(t, *probe.TTLRemaining, int64(60))
	assert.GreaterOrEqual(t, *probe.TTLRemaining, int64(0))
}

func TestList(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for _, key := range []string{"acct-1", "acct-2", "other"} {
		_, _, err := svc.Store(ctx, key, map[string]interface{}{}, time.Minute)
		require.NoError(t, err)
	}

	keys, err := svc.List(ctx, "acct-*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"acct-1", "acct-2"}, keys)

	// Empty pattern defaults to everything.
	keys, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestStoreBulk(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	keys, err := svc.StoreBulk(ctx, []Item{
		{Key: "k1", Data: map[string]interface{}{}, TTL: 60 * time.Second},
		{Key: "k2", Data: map[string]interface{}{}, TTL: 60 * time.Second},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, keys)

	for _, key := range keys {
		entry, err := svc.Get(ctx, key)
		require.NoError(t, err)
		assert.Empty(t, entry.Data)
	}
}

func TestStoreBulk_PerItemTTL(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.StoreBulk(ctx, []Item{
		{Key: "short", Data: map[string]interface{}{}, TTL: 10 * time.Second},
		{Key: "defaulted", Data: map[string]interface{}{}},
	})
	require.NoError(t, err)

	short, err := svc.Get(ctx, "short")
	require.NoError(t, err)
	assert.Equal(t, 10, short.OriginalTTL)

	defaulted, err := svc.Get(ctx, "defaulted")
	require.NoError(t, err)
	assert.Equal(t, int(DefaultTTL/time.Second), defaulted.OriginalTTL)
}

func TestStoreBulk_ValidatesBeforeSubmit(t *testing.T) {
	backend := new(MockBackend)
	svc := NewService(backend, zap.NewNop())

	_, err := svc.StoreBulk(context.Background(), []Item{
		{Key: "ok", Data: map[string]interface{}{}},
		{Key: "", Data: map[string]interface{}{}},
	})
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	// Nothing was pipelined: the batch is rejected whole on bad input.
	backend.AssertNotCalled(t, "SetBulk", mock.Anything, mock.Anything)
}

func TestStoreBulk_PipelineFailure(t *testing.T) {
	backend := new(MockBackend)
	backend.On("SetBulk", mock.Anything, mock.Anything).
		Return(errors.New("connection dropped mid-pipeline"))

	svc := NewService(backend, zap.NewNop())
	_, err := svc.StoreBulk(context.Background(), []Item{
		{Key: "k1", Data: map[string]interface{}{}},
	})
	// No per-item outcomes: the whole batch reports one failure.
	require.Error(t, err)
}

func TestStoreBulk_Empty(t *testing.T) {
	svc := newTestService()
	_, err := svc.StoreBulk(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestStore_BackendUnavailable(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storeErr("set", errors.New("dial tcp: connection refused")))

	svc := NewService(backend, zap.NewNop())
	_, _, err := svc.Store(context.Background(), "k", map[string]interface{}{}, time.Minute)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestOperationsAfterClose(t *testing.T) {
	backend := NewMemoryBackend()
	svc := NewService(backend, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, backend.Close())

	_, _, err := svc.Store(ctx, "k", map[string]interface{}{}, time.Minute)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))

	err = svc.Ping(ctx)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}
