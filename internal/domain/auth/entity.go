// internal/domain/auth/entity.go
package auth

import (
	"database/sql"
	"time"
)

// User is an account owner (role "md") or a plain user.
type User struct {
	ID           int64          `json:"id" db:"id"`
	Username     string         `json:"username" db:"username"`
	Email        sql.NullString `json:"email,omitempty" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Role         string         `json:"role" db:"role"`
	BusinessName sql.NullString `json:"business_name,omitempty" db:"business_name"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Employee is a staff login scoped to an owner's tenant. Permission grants
// are keyed by the employee id, never the tenant id.
type Employee struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Session is the durable row behind the Redis session record.
type Session struct {
	ID             int64          `json:"id" db:"id"`
	UserID         int64          `json:"user_id" db:"user_id"`
	JTI            string         `json:"-" db:"jti"`
	Role           string         `json:"role" db:"role"`
	IPAddress      sql.NullString `json:"ip_address" db:"ip_address"`
	UserAgent      sql.NullString `json:"user_agent" db:"user_agent"`
	Status         string         `json:"status" db:"status"` // active, expired, revoked
	LoginAt        time.Time      `json:"login_at" db:"login_at"`
	LastActivityAt time.Time      `json:"last_activity_at" db:"last_activity_at"`
	ExpiresAt      time.Time      `json:"expires_at" db:"expires_at"`
	LogoutAt       sql.NullTime   `json:"logout_at" db:"logout_at"`
}

// LoginLog records one successful authentication for the admin console.
type LoginLog struct {
	ID        int64          `json:"id" db:"id"`
	UserID    int64          `json:"user_id" db:"user_id"`
	Username  string         `json:"username" db:"username"`
	Role      string         `json:"role" db:"role"`
	IPAddress sql.NullString `json:"ip_address" db:"ip_address"`
	UserAgent sql.NullString `json:"user_agent" db:"user_agent"`
	LoggedAt  time.Time      `json:"logged_at" db:"logged_at"`
}

// Permission is a grantable capability, e.g. "settings.page.access".
type Permission struct {
	ID          int64          `json:"id" db:"id"`
	ResourceKey string         `json:"resource_key" db:"resource_key"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
