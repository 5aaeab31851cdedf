package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(RedisOptions{Addr: mr.Addr(), OpTimeout: time.Second}, zap.NewNop())
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestRedisStoreGetMissingKey(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Second))

	mr.FastForward(2 * time.Second)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, store.Set(ctx, "b", "2", time.Minute))

	require.NoError(t, store.Delete(ctx, "a", "b", "never-existed"))

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStoreIncrementWithExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := store.IncrementWithExpiry(ctx, "counter", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	// The expiration lands in the same pipeline as the increment.
	assert.Greater(t, mr.TTL("counter"), time.Duration(0))
}

func TestRedisStoreSAddAndSMembers(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SAdd(ctx, "tags", time.Minute, "k1", "k2"))
	require.NoError(t, store.SAdd(ctx, "tags", time.Minute, "k2", "k3"))

	members, err := store.SMembers(ctx, "tags")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"k1", "k2", "k3"}, members)
	assert.Greater(t, mr.TTL("tags"), time.Duration(0))
}

func TestRedisStoreAvailable(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	assert.True(t, store.Available(ctx))

	mr.Close()
	assert.False(t, store.Available(ctx))
}

func TestRedisStoreFailsOpenWhenDown(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	mr.Close()

	// Read and write paths degrade silently.
	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, store.Set(ctx, "k", "v2", time.Minute))
	assert.NoError(t, store.Delete(ctx, "k"))
	assert.NoError(t, store.SAdd(ctx, "tags", time.Minute, "k"))

	members, err := store.SMembers(ctx, "tags")
	assert.NoError(t, err)
	assert.Empty(t, members)

	// Counter and introspection paths report unavailability instead, so
	// the limiter and monitor can apply their own policies.
	_, err = store.IncrementWithExpiry(ctx, "counter", time.Minute)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = store.Info(ctx, "memory")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestRedisStoreUnconfigured(t *testing.T) {
	store := NewRedisStore(RedisOptions{}, zap.NewNop())
	ctx := context.Background()

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	assert.False(t, store.Available(ctx))

	_, err = store.IncrementWithExpiry(ctx, "counter", time.Minute)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.NoError(t, store.Close())
}
