// internal/service/auth/service.go
package auth

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"stockpilot-service/internal/domain/auth"
	xerrors "stockpilot-service/internal/pkg/errors"
	"stockpilot-service/internal/pkg/jwt"
	"stockpilot-service/internal/pkg/metrics"
	"stockpilot-service/internal/pkg/session"
	"stockpilot-service/internal/repository/postgres"
	"stockpilot-service/internal/service/permissions"
	ws "stockpilot-service/internal/websocket"
)

type AuthService struct {
	authRepo    *postgres.AuthRepository
	auditRepo   *postgres.AuditRepository
	perms       *permissions.Service
	jwtManager  *jwt.Manager
	sessions    *session.Manager
	unlockStore *session.UnlockStore
	rateLimiter *session.RateLimiter
	hub         *ws.Hub
	monitors    *monitorRegistry

	unlockSecret      string
	inactivityTimeout time.Duration
	logger            *zap.Logger
}

func NewAuthService(
	authRepo *postgres.AuthRepository,
	auditRepo *postgres.AuditRepository,
	perms *permissions.Service,
	jwtManager *jwt.Manager,
	sessions *session.Manager,
	unlockStore *session.UnlockStore,
	rateLimiter *session.RateLimiter,
	hub *ws.Hub,
	unlockSecret string,
	inactivityTimeout time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		authRepo:          authRepo,
		auditRepo:         auditRepo,
		perms:             perms,
		jwtManager:        jwtManager,
		sessions:          sessions,
		unlockStore:       unlockStore,
		rateLimiter:       rateLimiter,
		hub:               hub,
		monitors:          newMonitorRegistry(),
		unlockSecret:      unlockSecret,
		inactivityTimeout: inactivityTimeout,
		logger:            logger,
	}
}

// ========== Login ==========

// Login authenticates an account owner. The response carries everything
// the client needs to gate its UI; no separate permission fetch follows.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	allowed, _, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, req.Username)
	if err != nil {
		s.logger.Warn("rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	user, err := s.authRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, xerrors.ErrUnauthorized
	}

	resp, err := s.establishSession(ctx, jwt.TokenSpec{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, err
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, req.Username); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	return resp, nil
}

// EmployeeLogin authenticates a staff member. The token carries both the
// tenant id and the employee id; grants are keyed by the employee id.
func (s *AuthService) EmployeeLogin(ctx context.Context, req *auth.EmployeeLoginRequest) (*auth.LoginResponse, error) {
	allowed, _, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, req.Email)
	if err != nil {
		s.logger.Warn("rate limiter unavailable", zap.Error(err))
	} else if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	employee, err := s.authRepo.FindEmployeeByEmail(ctx, req.Email)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(req.Password)) != nil {
		return nil, xerrors.ErrUnauthorized
	}

	resp, err := s.establishSession(ctx, jwt.TokenSpec{
		UserID:     employee.UserID,
		EmployeeID: employee.ID,
		Username:   employee.Email,
		Role:       jwt.RoleEmployee,
	}, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, err
	}

	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	return resp, nil
}

// establishSession resolves permissions, mints the token and writes both
// session records plus the audit row.
func (s *AuthService) establishSession(ctx context.Context, spec jwt.TokenSpec, ip, userAgent string) (*auth.LoginResponse, error) {
	perms, err := s.perms.SetFor(ctx, spec.Role, spec.EmployeeID)
	if err != nil {
		return nil, err
	}
	spec.Permissions = perms
	spec.PermissionCodes = permissions.CodesFor(perms)

	token, jti, err := s.jwtManager.Generator.Generate(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtManager.Generator.Ttl)

	row := &auth.Session{
		UserID:         spec.UserID,
		JTI:            jti,
		Role:           spec.Role,
		IPAddress:      nullString(ip),
		UserAgent:      nullString(userAgent),
		Status:         "active",
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}
	if err := s.authRepo.CreateSession(ctx, row); err != nil {
		return nil, err
	}

	sess := &session.Data{
		JTI:             jti,
		SessionID:       row.ID,
		UserID:          spec.UserID,
		EmployeeID:      spec.EmployeeID,
		Username:        spec.Username,
		Role:            spec.Role,
		Permissions:     spec.Permissions,
		PermissionCodes: spec.PermissionCodes,
		IPAddress:       ip,
		UserAgent:       userAgent,
		LoginAt:         now,
		LastActivityAt:  now,
		ExpiresAt:       expiresAt,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	logRow := &auth.LoginLog{
		UserID:    spec.UserID,
		Username:  spec.Username,
		Role:      spec.Role,
		IPAddress: nullString(ip),
		UserAgent: nullString(userAgent),
	}
	if err := s.auditRepo.CreateLoginLog(ctx, logRow); err != nil {
		// audit failure must not block the login
		s.logger.Error("failed to record login", zap.Error(err))
	}

	metrics.Logins.WithLabelValues(spec.Role).Inc()
	s.logger.Info("login",
		zap.Int64("user_id", spec.UserID),
		zap.Int64("employee_id", spec.EmployeeID),
		zap.String("role", spec.Role))

	return &auth.LoginResponse{
		AccessToken:     token,
		TokenType:       "bearer",
		Username:        spec.Username,
		Role:            spec.Role,
		UserID:          spec.UserID,
		EmployeeID:      spec.EmployeeID,
		Permissions:     spec.Permissions,
		PermissionCodes: spec.PermissionCodes,
	}, nil
}

// ========== Session lifecycle ==========

// Session loads the live record for verified claims. A missing or dead
// record means expired authentication regardless of token validity.
func (s *AuthService) Session(ctx context.Context, claims *jwt.Claims) (*session.Data, error) {
	sess, err := s.sessions.Get(ctx, claims.UserID, claims.ID)
	if err != nil {
		return nil, err
	}

	// a record restored from the durable row has no permission material;
	// rehydrate it from the claims before anything gates on it
	if len(sess.Permissions) == 0 && len(claims.Permissions) > 0 {
		sess.Permissions = claims.Permissions
		sess.PermissionCodes = claims.PermissionCodes
		sess.EmployeeID = claims.EmployeeID
		sess.Username = claims.Username
		if err := s.sessions.Replace(ctx, sess); err != nil && !xerrors.Is(err, xerrors.ErrStaleSession) {
			return nil, err
		}
	}

	return sess, nil
}

// Me assembles the current identity view including elevation state.
func (s *AuthService) Me(ctx context.Context, sess *session.Data) (*auth.MeResponse, error) {
	unlocked := false
	if sess.Role == jwt.RoleMD {
		var err error
		unlocked, err = s.unlockStore.IsUnlocked(ctx, sess.UserID)
		if err != nil {
			s.logger.Warn("failed to read unlock marker", zap.Error(err))
		}
	}

	return &auth.MeResponse{
		Username:        sess.Username,
		Role:            sess.Role,
		UserID:          sess.UserID,
		EmployeeID:      sess.EmployeeID,
		Permissions:     sess.Permissions,
		PermissionCodes: sess.PermissionCodes,
		AdminUnlocked:   unlocked,
	}, nil
}

// Employees lists a tenant's staff logins for the grants console.
func (s *AuthService) Employees(ctx context.Context, userID int64) ([]auth.Employee, error) {
	return s.authRepo.ListEmployees(ctx, userID)
}

// Renew issues a fresh token for a live session, re-resolving permission
// grants so a renewed client picks up revocations. The old session dies;
// elevation does not carry over.
func (s *AuthService) Renew(ctx context.Context, sess *session.Data) (*auth.LoginResponse, error) {
	resp, err := s.establishSession(ctx, jwt.TokenSpec{
		UserID:     sess.UserID,
		EmployeeID: sess.EmployeeID,
		Username:   sess.Username,
		Role:       sess.Role,
	}, sess.IPAddress, sess.UserAgent)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Invalidate(ctx, sess.UserID, sess.JTI); err != nil {
		s.logger.Warn("failed to invalidate renewed session", zap.Error(err))
	}

	return resp, nil
}

// Logout tears the session down: both records, the elevation marker and
// the inactivity monitor.
func (s *AuthService) Logout(ctx context.Context, sess *session.Data) error {
	if err := s.sessions.Invalidate(ctx, sess.UserID, sess.JTI); err != nil {
		return err
	}

	if err := s.unlockStore.Lock(ctx, sess.UserID); err != nil {
		s.logger.Warn("failed to clear unlock marker on logout", zap.Error(err))
	}
	s.monitors.remove(sess.UserID)

	s.logger.Info("logout", zap.Int64("user_id", sess.UserID))
	return nil
}

// LogoutAll revokes every session of the tenant and drops its open
// sockets, used when the owner suspects a leaked credential.
func (s *AuthService) LogoutAll(ctx context.Context, sess *session.Data) error {
	if err := s.sessions.InvalidateAll(ctx, sess.UserID); err != nil {
		return err
	}

	if err := s.unlockStore.Lock(ctx, sess.UserID); err != nil {
		s.logger.Warn("failed to clear unlock marker on logout", zap.Error(err))
	}
	s.monitors.remove(sess.UserID)

	if s.hub != nil {
		s.hub.ForceLogout(sess.UserID, sess.JTI, "logout_all")
		s.hub.DisconnectUser(sess.UserID, "logged out on all devices")
	}

	s.logger.Info("logout all sessions", zap.Int64("user_id", sess.UserID))
	return nil
}

// RecordActivity is the qualifying-interaction hook: stamps the session,
// restarts the inactivity countdown and keeps the elevation marker TTL in
// step while the countdown is alive.
func (s *AuthService) RecordActivity(ctx context.Context, userID int64, jti string) error {
	if err := s.sessions.TouchActivity(ctx, userID, jti); err != nil {
		return err
	}

	if m := s.monitors.get(userID); m != nil {
		m.Touch()
		// refresh only keeps a live marker alive; it cannot resurrect
		// one that already expired
		if _, err := s.unlockStore.Refresh(ctx, userID); err != nil {
			s.logger.Warn("failed to refresh unlock marker", zap.Error(err))
		}
	}

	return nil
}
