package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/SAP-F-2025/gradebook/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, found, err := store.Get(ctx, "courses")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "courses", `[]`))
	value, found, err := store.Get(ctx, "courses")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[]`, value)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, found, err := store.Get(ctx, "courses")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "courses", `[{"name":"Math"}]`))
	require.NoError(t, store.Set(ctx, "courses", `[{"name":"Physics"}]`))

	value, found, err := store.Get(ctx, "courses")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"name":"Physics"}]`, value)
}

func TestFileStore_KeyCannotEscapeBase(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileStore(base)
	require.NoError(t, err)

	assert.Equal(t, base+"/etc/passwd.json", store.path("../../etc/passwd"))
}

func TestQuotaStore(t *testing.T) {
	ctx := context.Background()
	store := WithQuota(NewMemoryStore(), 16)

	require.NoError(t, store.Set(ctx, "k", "small"))

	err := store.Set(ctx, "k", "this value is far too large")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrQuotaExceeded))

	value, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "small", value)
}

func TestWithQuota_Disabled(t *testing.T) {
	inner := NewMemoryStore()
	assert.Same(t, inner, WithQuota(inner, 0))
}

func TestUnavailableStore(t *testing.T) {
	ctx := context.Background()
	store := UnavailableStore{Reason: errors.New("read-only filesystem")}

	_, _, err := store.Get(ctx, "courses")
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Contains(t, err.Error(), "read-only filesystem")

	assert.True(t, errors.Is(store.Set(ctx, "courses", "[]"), ErrUnavailable))
	assert.NoError(t, store.Close())
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("miss is not found", func(t *testing.T) {
		c := &MockCache{}
		c.On("Get", ctx, "gradebook:courses", mock.Anything).Return(cache.ErrCacheMiss)

		_, found, err := NewRedisStore(c, "gradebook:").Get(ctx, "courses")
		require.NoError(t, err)
		assert.False(t, found)
		c.AssertExpectations(t)
	})

	t.Run("hit returns raw json", func(t *testing.T) {
		c := &MockCache{}
		c.On("Get", ctx, "gradebook:courses", mock.Anything).
			Run(func(args mock.Arguments) {
				dest := args.Get(2).(*json.RawMessage)
				*dest = json.RawMessage(`[{"name":"Math"}]`)
			}).
			Return(nil)

		value, found, err := NewRedisStore(c, "gradebook:").Get(ctx, "courses")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"name":"Math"}]`, value)
	})

	t.Run("set stores without expiry", func(t *testing.T) {
		c := &MockCache{}
		c.On("Set", ctx, "gradebook:courses", json.RawMessage(`[]`), time.Duration(0)).Return(nil)

		require.NoError(t, NewRedisStore(c, "gradebook:").Set(ctx, "courses", `[]`))
		c.AssertExpectations(t)
	})
}
