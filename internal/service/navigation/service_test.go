package navigation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockpilot-service/internal/domain/navigation"
	"stockpilot-service/internal/pkg/jwt"
	"stockpilot-service/internal/pkg/session"
)

type stubUnlockChecker struct {
	unlocked bool
	err      error
}

func (s *stubUnlockChecker) IsUnlocked(ctx context.Context, userID int64) (bool, error) {
	return s.unlocked, s.err
}

func menuByID(entries []MenuEntry) map[string]MenuEntry {
	out := make(map[string]MenuEntry, len(entries))
	for _, e := range entries {
		out[e.ID] = e
	}
	return out
}

func TestMenuAnnotatesEmployeeAccess(t *testing.T) {
	svc := NewService(nil, nil, &stubUnlockChecker{}, zap.NewNop())

	entries, err := svc.Menu(context.Background(), &session.Data{
		UserID:      1,
		Role:        jwt.RoleEmployee,
		Permissions: []string{"sales.page.access"},
	})
	require.NoError(t, err)

	byID := menuByID(entries)

	assert.True(t, byID[navigation.PageDashboard].Accessible, "dashboard is open to everyone")
	assert.True(t, byID[navigation.PageSales].Accessible)
	assert.False(t, byID[navigation.PageInventory].Accessible, "enforced page without the key")
	assert.True(t, byID[navigation.PageVendors].Accessible, "unenforced key is informational")
	assert.False(t, byID[navigation.PageAdminReview].Accessible, "employee never sees the console enabled")
}

func TestMenuElevatedEntryTracksUnlockMarker(t *testing.T) {
	locked := &stubUnlockChecker{unlocked: false}
	svc := NewService(nil, nil, locked, zap.NewNop())

	sess := &session.Data{UserID: 1, Role: jwt.RoleMD}

	entries, err := svc.Menu(context.Background(), sess)
	require.NoError(t, err)
	assert.False(t, menuByID(entries)[navigation.PageAdminReview].Accessible)

	locked.unlocked = true
	entries, err = svc.Menu(context.Background(), sess)
	require.NoError(t, err)
	assert.True(t, menuByID(entries)[navigation.PageAdminReview].Accessible)
}

func TestMenuFailsClosedWhenMarkerStoreDown(t *testing.T) {
	svc := NewService(nil, nil, &stubUnlockChecker{unlocked: true, err: assert.AnError}, zap.NewNop())

	entries, err := svc.Menu(context.Background(), &session.Data{UserID: 1, Role: jwt.RoleMD})
	require.NoError(t, err)

	assert.False(t, menuByID(entries)[navigation.PageAdminReview].Accessible)
}
