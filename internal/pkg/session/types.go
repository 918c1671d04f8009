// internal/pkg/session/types.go
package session

import "time"

// Data is the process-wide session record. Writes go through Manager as
// whole-object replacements guarded by Version; fields are never patched
// in place, which keeps readers from seeing torn state.
type Data struct {
	JTI             string    `json:"jti"`
	SessionID       int64     `json:"session_id"` // DB session ID
	UserID          int64     `json:"user_id"`    // tenant/company owner id
	EmployeeID      int64     `json:"employee_id,omitempty"`
	Username        string    `json:"username"`
	Role            string    `json:"role"`
	Permissions     []string  `json:"permissions"`
	PermissionCodes []string  `json:"permission_codes"`
	IPAddress       string    `json:"ip_address"`
	UserAgent       string    `json:"user_agent"`
	LoginAt         time.Time `json:"login_at"`
	LastActivityAt  time.Time `json:"last_activity_at"`
	ExpiresAt       time.Time `json:"expires_at"`
	Version         int64     `json:"version"`
}
