// internal/service/navigation/service.go
package navigation

import (
	"context"

	"go.uber.org/zap"

	"stockpilot-service/internal/access"
	"stockpilot-service/internal/domain/navigation"
	"stockpilot-service/internal/pkg/jwt"
	"stockpilot-service/internal/pkg/metrics"
	"stockpilot-service/internal/pkg/session"
	subsvc "stockpilot-service/internal/service/subscription"
)

// UnlockChecker reports whether a tenant currently holds admin elevation.
type UnlockChecker interface {
	IsUnlocked(ctx context.Context, userID int64) (bool, error)
}

type Service struct {
	table   *navigation.Table
	subs    *subsvc.Service
	unlocks UnlockChecker
	logger  *zap.Logger
}

func NewService(table *navigation.Table, subs *subsvc.Service, unlocks UnlockChecker, logger *zap.Logger) *Service {
	if table == nil {
		table = navigation.Default()
	}
	return &Service{table: table, subs: subs, unlocks: unlocks, logger: logger}
}

// MenuEntry is a menu row annotated with the viewer's access to it. The
// client renders every entry and uses Accessible for enabled/disabled
// styling; hiding is not the security boundary, the resolver is.
type MenuEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Accessible  bool   `json:"accessible"`
	Elevated    bool   `json:"elevated,omitempty"`
}

// Menu returns the full menu annotated for one viewer.
func (s *Service) Menu(ctx context.Context, sess *session.Data) ([]MenuEntry, error) {
	viewer, err := s.viewer(ctx, sess)
	if err != nil {
		return nil, err
	}

	entries := s.table.Entries()
	menu := make([]MenuEntry, 0, len(entries))
	for _, e := range entries {
		accessible := access.CanAccess(viewer.Permissions, e.RequiredPermission, e.Enforced)
		if e.Elevated {
			accessible = viewer.Role == jwt.RoleMD && viewer.AdminUnlocked
		}
		menu = append(menu, MenuEntry{
			ID:          e.ID,
			DisplayName: e.DisplayName,
			Accessible:  accessible,
			Elevated:    e.Elevated,
		})
	}

	return menu, nil
}

// Resolve answers what the client should render for a requested page id,
// folding the subscription gate in.
func (s *Service) Resolve(ctx context.Context, sess *session.Data, pageID string) (access.Decision, error) {
	viewer, err := s.viewer(ctx, sess)
	if err != nil {
		return access.Decision{}, err
	}

	gate, err := s.subs.Gate(ctx, sess.UserID)
	if err != nil {
		return access.Decision{}, err
	}

	decision := access.Resolve(viewer, gate, s.table, pageID)
	if decision.Outcome == access.RenderDenied {
		metrics.AccessDenied.WithLabelValues(decision.PageID).Inc()
		s.logger.Info("page access denied",
			zap.Int64("user_id", sess.UserID),
			zap.Int64("employee_id", sess.EmployeeID),
			zap.String("page", decision.PageID))
	}

	return decision, nil
}

func (s *Service) viewer(ctx context.Context, sess *session.Data) (access.Viewer, error) {
	unlocked := false
	if sess.Role == jwt.RoleMD {
		var err error
		unlocked, err = s.unlocks.IsUnlocked(ctx, sess.UserID)
		if err != nil {
			// fail closed on elevation when the marker store is down
			s.logger.Warn("failed to read unlock marker", zap.Error(err))
			unlocked = false
		}
	}

	return access.Viewer{
		Role:          sess.Role,
		AdminUnlocked: unlocked,
		Permissions:   access.NewSet(sess.Permissions),
	}, nil
}
