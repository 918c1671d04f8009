// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role tags carried in tokens. "md" is the account owner (managing
// director), "employee" a staff login scoped to an owner's tenant.
const (
	RoleMD       = "md"
	RoleEmployee = "employee"
	RoleUser     = "user"
)

// Claims represents the JWT claims
type Claims struct {
	UserID          int64    `json:"user_id"`               // tenant/company owner id
	EmployeeID      int64    `json:"employee_id,omitempty"` // set only for role=employee
	Username        string   `json:"username"`
	Role            string   `json:"role"`
	Permissions     []string `json:"permissions,omitempty"`
	PermissionCodes []string `json:"permission_codes,omitempty"`
	jwt.RegisteredClaims
}

// HasPermission checks if the claims contain a specific permission key
func (c *Claims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// IsMD reports whether the token belongs to the account owner.
func (c *Claims) IsMD() bool {
	return c.Role == RoleMD
}

// PrincipalID returns the id permission grants are keyed by: the employee
// id for staff logins, the owner id otherwise.
func (c *Claims) PrincipalID() int64 {
	if c.Role == RoleEmployee && c.EmployeeID > 0 {
		return c.EmployeeID
	}
	return c.UserID
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		// If audience is required but missing
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
