// internal/service/auth/unlock.go
package auth

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"stockpilot-service/internal/access/inactivity"
	xerrors "stockpilot-service/internal/pkg/errors"
	"stockpilot-service/internal/pkg/metrics"
)

// monitorRegistry holds one inactivity monitor per elevated tenant.
// Monitors exist only while elevation is held; a locked tenant has none.
type monitorRegistry struct {
	mu       sync.Mutex
	monitors map[int64]*inactivity.Monitor
}

func newMonitorRegistry() *monitorRegistry {
	return &monitorRegistry{monitors: make(map[int64]*inactivity.Monitor)}
}

func (r *monitorRegistry) get(userID int64) *inactivity.Monitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.monitors[userID]
}

// replace installs a fresh monitor, stopping any previous one so a stale
// countdown can never fire against new elevation.
func (r *monitorRegistry) replace(userID int64, m *inactivity.Monitor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.monitors[userID]; ok {
		old.Stop()
	}
	r.monitors[userID] = m
}

func (r *monitorRegistry) remove(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.monitors[userID]; ok {
		m.Stop()
		delete(r.monitors, userID)
	}
}

// AdminUnlock elevates an owner session after the unlock gesture. The
// marker is compared in constant time; a wrong marker is indistinguishable
// from a missing one.
func (s *AuthService) AdminUnlock(ctx context.Context, userID int64, marker string) error {
	if s.unlockSecret == "" {
		s.logger.Error("admin unlock attempted with no secret configured")
		return xerrors.ErrForbidden
	}
	if subtle.ConstantTimeCompare([]byte(marker), []byte(s.unlockSecret)) != 1 {
		return xerrors.ErrForbidden
	}

	if err := s.unlockStore.Unlock(ctx, userID); err != nil {
		return err
	}

	monitor := inactivity.New(s.inactivityTimeout, s.lockCallback(userID))
	s.monitors.replace(userID, monitor)
	monitor.Activate()

	s.logger.Info("admin console unlocked", zap.Int64("user_id", userID))
	return nil
}

// AdminLock drops elevation immediately.
func (s *AuthService) AdminLock(ctx context.Context, userID int64) error {
	s.monitors.remove(userID)

	if err := s.unlockStore.Lock(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("admin console locked", zap.Int64("user_id", userID))
	return nil
}

// IsUnlocked reports current elevation state for a tenant.
func (s *AuthService) IsUnlocked(ctx context.Context, userID int64) (bool, error) {
	return s.unlockStore.IsUnlocked(ctx, userID)
}

// lockCallback runs when the countdown expires. It must not call back
// into the monitor; re-elevation happens through AdminUnlock, which
// installs a fresh one.
func (s *AuthService) lockCallback(userID int64) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.unlockStore.Lock(ctx, userID); err != nil {
			s.logger.Error("failed to clear unlock marker on inactivity",
				zap.Int64("user_id", userID), zap.Error(err))
		}

		metrics.AdminLockExpired.Inc()
		s.logger.Info("admin console relocked after inactivity", zap.Int64("user_id", userID))

		if s.hub != nil {
			s.hub.NotifySessionLocked(userID, "inactivity",
				"Admin console locked after inactivity. Unlock again to continue.")
		}
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
