package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUnlockStore(t *testing.T, ttl time.Duration) (*UnlockStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewUnlockStore(client, ttl), mr
}

func TestUnlockStoreRoundTrip(t *testing.T) {
	store, _ := newTestUnlockStore(t, time.Minute)
	ctx := context.Background()

	unlocked, err := store.IsUnlocked(ctx, 7)
	require.NoError(t, err)
	assert.False(t, unlocked)

	require.NoError(t, store.Unlock(ctx, 7))

	unlocked, err = store.IsUnlocked(ctx, 7)
	require.NoError(t, err)
	assert.True(t, unlocked)

	require.NoError(t, store.Lock(ctx, 7))

	unlocked, err = store.IsUnlocked(ctx, 7)
	require.NoError(t, err)
	assert.False(t, unlocked)
}

func TestUnlockStoreMarkerExpires(t *testing.T) {
	store, mr := newTestUnlockStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Unlock(ctx, 7))
	mr.FastForward(2 * time.Minute)

	unlocked, err := store.IsUnlocked(ctx, 7)
	require.NoError(t, err)
	assert.False(t, unlocked)
}

func TestUnlockStoreRefreshOnlyWhileAlive(t *testing.T) {
	store, mr := newTestUnlockStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Unlock(ctx, 7))

	ok, err := store.Refresh(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	// an expired marker must not be resurrected by a refresh
	mr.FastForward(2 * time.Minute)
	ok, err = store.Refresh(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	unlocked, err := store.IsUnlocked(ctx, 7)
	require.NoError(t, err)
	assert.False(t, unlocked)
}

func TestNoticeGateFiresOncePerEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	gate := NewNoticeGate(client, time.Hour)
	ctx := context.Background()

	first, err := gate.Once(ctx, "lock:42:1000")
	require.NoError(t, err)
	assert.True(t, first)

	for i := 0; i < 3; i++ {
		again, err := gate.Once(ctx, "lock:42:1000")
		require.NoError(t, err)
		assert.False(t, again)
	}

	// a different event id is a fresh warning
	other, err := gate.Once(ctx, "lock:42:2000")
	require.NoError(t, err)
	assert.True(t, other)
}
