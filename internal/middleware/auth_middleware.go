// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"stockpilot-service/internal/pkg/jwt"
	"stockpilot-service/internal/pkg/response"
	"stockpilot-service/internal/service/auth"
	"stockpilot-service/internal/service/permissions"

	xerrors "stockpilot-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	verifier    *jwt.Verifier
	authService *auth.AuthService
	perms       *permissions.Service
}

func NewAuthMiddleware(verifier *jwt.Verifier, authService *auth.AuthService, perms *permissions.Service) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:    verifier,
		authService: authService,
		perms:       perms,
	}
}

// Auth validates the bearer token and confirms the session is still
// alive. An expired token and a dead session get the same answer: the
// client purges its state and returns to login.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			if errors.Is(err, jwt.ErrExpired) {
				authExpired(c)
				return
			}
			response.Error(c, http.StatusUnauthorized, "invalid token", err)
			return
		}

		sess, err := m.authService.Session(c.Request.Context(), claims)
		if err != nil {
			if xerrors.Is(err, xerrors.ErrAuthExpired) {
				authExpired(c)
				return
			}
			response.Error(c, http.StatusUnauthorized, "invalid or expired session", err)
			return
		}

		// Set user context
		c.Set("user_id", claims.UserID)
		c.Set("employee_id", claims.EmployeeID)
		c.Set("jti", claims.ID)
		c.Set("role", claims.Role)
		c.Set("permissions", sess.Permissions)
		c.Set("permission_codes", sess.PermissionCodes)
		c.Set("session", sess)

		c.Next()
	}
}

// RequireRole requires the caller to hold one of the given role tags.
// MUST be used after Auth()
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("role")
		if userRole == "" {
			response.Error(c, http.StatusForbidden, "no role found - authentication required", nil)
			return
		}

		for _, required := range roles {
			if userRole == required {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "insufficient permissions", errors.New("user does not have required role"), map[string]interface{}{
			"required_roles": roles,
		})
	}
}

// RequirePermission requires at least one of the given permission keys,
// tolerating alias spellings. Owners pass by construction: their session
// carries the full catalogue.
// MUST be used after Auth()
func (m *AuthMiddleware) RequirePermission(keys ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		held := GetPermissions(c)

		for _, key := range keys {
			if m.perms.Check(held, key) {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "insufficient permissions", xerrors.ErrPermissionDenied, map[string]interface{}{
			"required_permissions": keys,
		})
	}
}

// RequireElevation requires a currently-unlocked owner session. Role
// alone never satisfies it; the unlock marker must be live right now.
// MUST be used after Auth()
func (m *AuthMiddleware) RequireElevation() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != jwt.RoleMD {
			response.Forbidden(c, "owner access required")
			return
		}

		userID := MustGetUserID(c)
		unlocked, err := m.authService.IsUnlocked(c.Request.Context(), userID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "failed to check unlock state", err)
			return
		}
		if !unlocked {
			response.Error(c, http.StatusForbidden, "admin console is locked", nil, gin.H{
				"view": "admin_locked",
			})
			return
		}

		c.Next()
	}
}

// Composed middleware stacks

// MDOnly returns middlewares for owner-only routes (Auth + RequireRole)
func (m *AuthMiddleware) MDOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(jwt.RoleMD),
	}
}

// Elevated returns middlewares for the admin console (Auth + unlock check)
func (m *AuthMiddleware) Elevated() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireElevation(),
	}
}

// WithPermission returns middlewares for permission-gated routes
func (m *AuthMiddleware) WithPermission(keys ...string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequirePermission(keys...),
	}
}

// authExpired is the single expiry answer: the client clears its session
// state and returns to login with a notice.
func authExpired(c *gin.Context) {
	response.Error(c, http.StatusUnauthorized, "session expired, please log in again", nil, gin.H{
		"view":   "login",
		"reason": "auth_expired",
	})
}

// extractToken extracts Bearer token from Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Fallback to query param, used by the websocket upgrade
	token := c.Query("token")
	if token != "" {
		return token
	}

	return ""
}
