package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

func setupRedisStore(t *testing.T, opts ...StoreOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisConfig{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: time.Second,
	}, opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store, mr
}

func TestNewRedisStore(t *testing.T) {
	t.Run("requires url", func(t *testing.T) {
		_, err := NewRedisStore(context.Background(), RedisConfig{})
		require.Error(t, err)
	})

	t.Run("invalid url", func(t *testing.T) {
		_, err := NewRedisStore(context.Background(), RedisConfig{URL: "http://not-redis"})
		require.Error(t, err)
	})

	t.Run("unreachable server", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewRedisStore(context.Background(), RedisConfig{
			URL:            fmt.Sprintf("redis://%s", addr),
			ConnectTimeout: 200 * time.Millisecond,
		})
		require.Error(t, err)
	})

	t.Run("negative ttl", func(t *testing.T) {
		mr := miniredis.RunT(t)
		_, err := NewRedisStore(context.Background(), RedisConfig{
			URL: fmt.Sprintf("redis://%s", mr.Addr()),
		}, WithTTL(-time.Second))
		require.Error(t, err)
	})
}

func TestRedisStoreAppendAndLookup(t *testing.T) {
	store, mr := setupRedisStore(t, WithKeyPrefix("test:lt:"))
	ctx := context.Background()

	empty, err := store.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, store.Append(ctx, "alice", contractx.Record{Query: "q1", Output: "o1", Mode: "summarize"}))
	require.NoError(t, store.Append(ctx, "alice", contractx.Record{Query: "q2", Output: "o2", Mode: "code", Failed: true}))
	require.NoError(t, store.Append(ctx, "bob", contractx.Record{Query: "other", Output: "x"}))

	assert.True(t, mr.Exists("test:lt:alice"))

	got, err := store.Lookup(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "q1", got[0].Query)
	assert.Equal(t, "o1", got[0].Output)
	assert.Equal(t, "summarize", got[0].Mode)
	assert.Equal(t, "q2", got[1].Query)
	assert.True(t, got[1].Failed)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].CreatedAt.IsZero())

	ttl := mr.TTL("test:lt:alice")
	assert.Equal(t, time.Duration(0), ttl)
}

func TestRedisStoreKeepsRecordID(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, "alice", contractx.Record{ID: "rec-1", Query: "q", Output: "o", CreatedAt: created}))

	got, err := store.Lookup(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rec-1", got[0].ID)
	assert.True(t, created.Equal(got[0].CreatedAt))
}

func TestRedisStoreTTL(t *testing.T) {
	store, mr := setupRedisStore(t, WithKeyPrefix("ttl:"), WithTTL(time.Hour))
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", contractx.Record{Query: "q"}))
	assert.Equal(t, time.Hour, mr.TTL("ttl:alice"))

	mr.FastForward(2 * time.Hour)

	got, err := store.Lookup(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStoreResetOnlyTouchesPrefix(t *testing.T) {
	store, mr := setupRedisStore(t, WithKeyPrefix("mem:"))
	ctx := context.Background()

	require.NoError(t, mr.Set("unrelated", "keep"))
	for i := range 150 {
		require.NoError(t, store.Append(ctx, fmt.Sprintf("user-%d", i), contractx.Record{Query: "q"}))
	}

	require.NoError(t, store.Reset(ctx))

	for i := range 150 {
		assert.False(t, mr.Exists(fmt.Sprintf("mem:user-%d", i)))
	}
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisStoreLookupCorruptRecord(t *testing.T) {
	store, mr := setupRedisStore(t, WithKeyPrefix("bad:"))

	_, err := mr.Push("bad:alice", "{not json")
	require.NoError(t, err)

	_, err = store.Lookup(context.Background(), "alice")
	require.Error(t, err)
}
