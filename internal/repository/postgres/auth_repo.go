// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockpilot-service/internal/domain/auth"
	xerrors "stockpilot-service/internal/pkg/errors"
)

type AuthRepository struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

// FindUserByUsername retrieves an owner account by username.
func (r *AuthRepository) FindUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, business_name, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	var u auth.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.BusinessName, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &u, nil
}

// FindEmployeeByEmail retrieves an active staff login by email.
func (r *AuthRepository) FindEmployeeByEmail(ctx context.Context, email string) (*auth.Employee, error) {
	query := `
		SELECT id, user_id, name, email, password_hash, is_active, created_at
		FROM employees
		WHERE email = $1 AND is_active = TRUE
	`

	var e auth.Employee
	err := r.db.QueryRow(ctx, query, email).Scan(
		&e.ID, &e.UserID, &e.Name, &e.Email, &e.PasswordHash, &e.IsActive, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	return &e, nil
}

// ListEmployees returns every staff login of a tenant.
func (r *AuthRepository) ListEmployees(ctx context.Context, userID int64) ([]auth.Employee, error) {
	query := `
		SELECT id, user_id, name, email, password_hash, is_active, created_at
		FROM employees
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []auth.Employee
	for rows.Next() {
		var e auth.Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Email, &e.PasswordHash, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

// CreateSession inserts the durable session row.
func (r *AuthRepository) CreateSession(ctx context.Context, s *auth.Session) error {
	query := `
		INSERT INTO sessions (user_id, jti, role, ip_address, user_agent, status, login_at, last_activity_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		s.UserID, s.JTI, s.Role, s.IPAddress, s.UserAgent,
		s.Status, s.LoginAt, s.LastActivityAt, s.ExpiresAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// FindSessionByJTI retrieves a session row by token id.
func (r *AuthRepository) FindSessionByJTI(ctx context.Context, jti string) (*auth.Session, error) {
	query := `
		SELECT id, user_id, jti, role, ip_address, user_agent, status,
		       login_at, last_activity_at, expires_at, logout_at
		FROM sessions
		WHERE jti = $1
	`

	var s auth.Session
	err := r.db.QueryRow(ctx, query, jti).Scan(
		&s.ID, &s.UserID, &s.JTI, &s.Role, &s.IPAddress, &s.UserAgent,
		&s.Status, &s.LoginAt, &s.LastActivityAt, &s.ExpiresAt, &s.LogoutAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &s, nil
}

// UpdateSessionActivity stamps last activity on the durable row.
func (r *AuthRepository) UpdateSessionActivity(ctx context.Context, sessionID int64) error {
	query := `UPDATE sessions SET last_activity_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to update session activity: %w", err)
	}
	return nil
}

// InvalidateSession marks one session revoked.
func (r *AuthRepository) InvalidateSession(ctx context.Context, sessionID int64) error {
	query := `UPDATE sessions SET status = 'revoked', logout_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, sessionID); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}

// InvalidateAllUserSessions revokes every active session of a user.
func (r *AuthRepository) InvalidateAllUserSessions(ctx context.Context, userID int64) error {
	query := `UPDATE sessions SET status = 'revoked', logout_at = NOW() WHERE user_id = $1 AND status = 'active'`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}
	return nil
}
