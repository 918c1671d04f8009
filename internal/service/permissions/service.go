// internal/service/permissions/service.go
package permissions

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"stockpilot-service/internal/access"
	"stockpilot-service/internal/domain/auth"
	wstypes "stockpilot-service/internal/domain/websocket"
	xerrors "stockpilot-service/internal/pkg/errors"
	"stockpilot-service/internal/pkg/jwt"
	"stockpilot-service/internal/repository/postgres"
)

type Service struct {
	permRepo *postgres.PermissionRepository
	notifier ChangeNotifier
	logger   *zap.Logger
}

// ChangeNotifier pushes grant/revoke events to a tenant's open tabs so
// menus re-render without a reload. Implemented by the websocket hub.
type ChangeNotifier interface {
	NotifyPermissionChange(userID int64, change *wstypes.PermissionChangeData)
}

func NewService(permRepo *postgres.PermissionRepository, notifier ChangeNotifier, logger *zap.Logger) *Service {
	return &Service{permRepo: permRepo, notifier: notifier, logger: logger}
}

// SetFor resolves the permission keys a principal holds. MD owners get
// the full catalogue; employees get their grants. An unknown role gets
// nothing.
func (s *Service) SetFor(ctx context.Context, role string, employeeID int64) ([]string, error) {
	if role == jwt.RoleMD {
		perms, err := s.permRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load permission catalogue: %w", err)
		}
		keys := make([]string, 0, len(perms))
		for _, p := range perms {
			keys = append(keys, p.ResourceKey)
		}
		return keys, nil
	}

	if employeeID == 0 {
		return nil, nil
	}

	keys, err := s.permRepo.ListGrantedKeys(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load granted permissions: %w", err)
	}
	return keys, nil
}

// GrantsFor returns an employee's granted resource keys together with
// their derived permission codes.
func (s *Service) GrantsFor(ctx context.Context, employeeID int64) (keys []string, codes []string, err error) {
	keys, err = s.permRepo.ListGrantedKeys(ctx, employeeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load granted permissions: %w", err)
	}
	return keys, CodesFor(keys), nil
}

// Check reports whether a held set satisfies one required key, tolerating
// alias spellings of the key. Unknown keys deny.
func (s *Service) Check(held []string, required string) bool {
	if required == "" {
		return false
	}
	set := access.NewSet(held)
	for _, alias := range AliasKeys(required) {
		if access.CanAccess(set, alias, true) {
			return true
		}
	}
	return false
}

// CheckMultiple evaluates several keys against one held set.
func (s *Service) CheckMultiple(held []string, required []string) map[string]bool {
	results := make(map[string]bool, len(required))
	for _, key := range required {
		results[key] = s.Check(held, key)
	}
	return results
}

// Catalogue lists every grantable permission.
func (s *Service) Catalogue(ctx context.Context) ([]auth.Permission, error) {
	return s.permRepo.ListAll(ctx)
}

// Grant assigns a permission key to an employee, resolving alias
// spellings against the catalogue first.
func (s *Service) Grant(ctx context.Context, employeeID int64, key string, grantedBy int64) error {
	perm, err := s.resolveKey(ctx, key)
	if err != nil {
		return err
	}

	if err := s.permRepo.Grant(ctx, employeeID, perm.ID, grantedBy); err != nil {
		return err
	}

	s.logger.Info("permission granted",
		zap.Int64("employee_id", employeeID),
		zap.String("resource_key", perm.ResourceKey),
		zap.Int64("granted_by", grantedBy))

	if s.notifier != nil {
		s.notifier.NotifyPermissionChange(grantedBy, &wstypes.PermissionChangeData{
			EmployeeID:     employeeID,
			ResourceKey:    perm.ResourceKey,
			PermissionCode: ToPermissionCode(perm.ResourceKey),
			Granted:        true,
		})
	}
	return nil
}

// Revoke removes a permission key from an employee.
func (s *Service) Revoke(ctx context.Context, employeeID int64, key string, revokedBy int64) error {
	perm, err := s.resolveKey(ctx, key)
	if err != nil {
		return err
	}

	if err := s.permRepo.Revoke(ctx, employeeID, perm.ID); err != nil {
		return err
	}

	s.logger.Info("permission revoked",
		zap.Int64("employee_id", employeeID),
		zap.String("resource_key", perm.ResourceKey))

	if s.notifier != nil {
		s.notifier.NotifyPermissionChange(revokedBy, &wstypes.PermissionChangeData{
			EmployeeID:     employeeID,
			ResourceKey:    perm.ResourceKey,
			PermissionCode: ToPermissionCode(perm.ResourceKey),
			Granted:        false,
		})
	}
	return nil
}

func (s *Service) resolveKey(ctx context.Context, key string) (*auth.Permission, error) {
	perms, err := s.permRepo.FindByKeys(ctx, AliasKeys(key))
	if err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, xerrors.ErrNotFound
	}
	return &perms[0], nil
}
