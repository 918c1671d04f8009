package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "stockpilot-service/internal/pkg/errors"
)

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewManager(client, nil), mr
}

func testSession() *Data {
	return &Data{
		JTI:         "01TESTJTI",
		UserID:      42,
		Username:    "owner",
		Role:        "md",
		Permissions: []string{"sales.page.access"},
		LoginAt:     time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sess := testSession()
	require.NoError(t, m.Create(ctx, sess))
	assert.Equal(t, int64(1), sess.Version)

	got, err := m.Get(ctx, 42, "01TESTJTI")
	require.NoError(t, err)
	assert.Equal(t, "owner", got.Username)
	assert.Equal(t, []string{"sales.page.access"}, got.Permissions)
	assert.Equal(t, int64(1), got.Version)
}

func TestManagerGetMissingSessionIsAuthExpired(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Get(context.Background(), 42, "nope")
	assert.ErrorIs(t, err, xerrors.ErrAuthExpired)
}

func TestManagerCreateExpiredSessionRejected(t *testing.T) {
	m, _ := newTestManager(t)

	sess := testSession()
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	assert.ErrorIs(t, m.Create(context.Background(), sess), xerrors.ErrAuthExpired)
}

func TestManagerReplaceIsWholeObjectWithVersionGuard(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sess := testSession()
	require.NoError(t, m.Create(ctx, sess))

	// reader A and reader B both load version 1
	a, err := m.Get(ctx, 42, "01TESTJTI")
	require.NoError(t, err)
	b, err := m.Get(ctx, 42, "01TESTJTI")
	require.NoError(t, err)

	a.Permissions = []string{"sales.page.access", "inventory.page.access"}
	require.NoError(t, m.Replace(ctx, a))
	assert.Equal(t, int64(2), a.Version)

	// B's write carries the stale version and is rejected, not merged
	b.Permissions = []string{"settings.page.access"}
	assert.ErrorIs(t, m.Replace(ctx, b), xerrors.ErrStaleSession)

	got, err := m.Get(ctx, 42, "01TESTJTI")
	require.NoError(t, err)
	assert.Equal(t, []string{"sales.page.access", "inventory.page.access"}, got.Permissions)
}

func TestManagerTouchActivityBumpsTimestamp(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sess := testSession()
	sess.LastActivityAt = time.Now().Add(-time.Hour)
	require.NoError(t, m.Create(ctx, sess))

	require.NoError(t, m.TouchActivity(ctx, 42, "01TESTJTI"))

	got, err := m.Get(ctx, 42, "01TESTJTI")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got.LastActivityAt, 5*time.Second)
}

func TestManagerInvalidate(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sess := testSession()
	require.NoError(t, m.Create(ctx, sess))
	require.NoError(t, m.Invalidate(ctx, 42, "01TESTJTI"))

	_, err := m.Get(ctx, 42, "01TESTJTI")
	assert.ErrorIs(t, err, xerrors.ErrAuthExpired)
}

func TestManagerInvalidateAllClearsEverySession(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	first := testSession()
	require.NoError(t, m.Create(ctx, first))

	second := testSession()
	second.JTI = "01OTHERJTI"
	require.NoError(t, m.Create(ctx, second))

	require.NoError(t, m.InvalidateAll(ctx, 42))

	_, err := m.Get(ctx, 42, "01TESTJTI")
	assert.ErrorIs(t, err, xerrors.ErrAuthExpired)
	_, err = m.Get(ctx, 42, "01OTHERJTI")
	assert.ErrorIs(t, err, xerrors.ErrAuthExpired)
}
