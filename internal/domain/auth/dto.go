// internal/domain/auth/dto.go
package auth

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`

	// Filled from the request, not the body
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type EmployeeLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse is the sole source of truth for initial client session
// state: token plus everything the routing shell gates on.
type LoginResponse struct {
	AccessToken     string   `json:"access_token"`
	TokenType       string   `json:"token_type"`
	Username        string   `json:"username"`
	Role            string   `json:"role"`
	UserID          int64    `json:"user_id"`
	EmployeeID      int64    `json:"employee_id,omitempty"`
	Permissions     []string `json:"permissions"`
	PermissionCodes []string `json:"permission_codes"`
}

// UnlockRequest carries the marker payload delivered by the client-side
// unlock gesture.
type UnlockRequest struct {
	Marker string `json:"marker" binding:"required"`
}

type MeResponse struct {
	Username        string   `json:"username"`
	Role            string   `json:"role"`
	UserID          int64    `json:"user_id"`
	EmployeeID      int64    `json:"employee_id,omitempty"`
	Permissions     []string `json:"permissions"`
	PermissionCodes []string `json:"permission_codes"`
	AdminUnlocked   bool     `json:"admin_unlocked"`
}
