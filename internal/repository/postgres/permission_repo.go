// internal/repository/postgres/permission_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"stockpilot-service/internal/domain/auth"
	xerrors "stockpilot-service/internal/pkg/errors"
)

type PermissionRepository struct {
	db *pgxpool.Pool
}

func NewPermissionRepository(db *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// ListAll returns the full permission catalogue.
func (r *PermissionRepository) ListAll(ctx context.Context) ([]auth.Permission, error) {
	query := `
		SELECT id, resource_key, description, created_at
		FROM permissions
		ORDER BY resource_key
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	defer rows.Close()

	var perms []auth.Permission
	for rows.Next() {
		var p auth.Permission
		if err := rows.Scan(&p.ID, &p.ResourceKey, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, p)
	}

	return perms, rows.Err()
}

// FindByKey resolves a single permission by its resource key.
func (r *PermissionRepository) FindByKey(ctx context.Context, key string) (*auth.Permission, error) {
	query := `
		SELECT id, resource_key, description, created_at
		FROM permissions
		WHERE resource_key = $1
	`

	var p auth.Permission
	err := r.db.QueryRow(ctx, query, key).Scan(&p.ID, &p.ResourceKey, &p.Description, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find permission: %w", err)
	}

	return &p, nil
}

// FindByKeys resolves permissions matching any of the given keys.
func (r *PermissionRepository) FindByKeys(ctx context.Context, keys []string) ([]auth.Permission, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, resource_key, description, created_at
		FROM permissions
		WHERE resource_key = ANY($1)
		ORDER BY resource_key
	`

	rows, err := r.db.Query(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("failed to find permissions: %w", err)
	}
	defer rows.Close()

	var perms []auth.Permission
	for rows.Next() {
		var p auth.Permission
		if err := rows.Scan(&p.ID, &p.ResourceKey, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		perms = append(perms, p)
	}

	return perms, rows.Err()
}

// ListGrantedKeys returns the resource keys granted to one employee.
func (r *PermissionRepository) ListGrantedKeys(ctx context.Context, employeeID int64) ([]string, error) {
	query := `
		SELECT p.resource_key
		FROM employee_permissions ep
		JOIN permissions p ON p.id = ep.permission_id
		WHERE ep.employee_id = $1
		ORDER BY p.resource_key
	`

	rows, err := r.db.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list granted permissions: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan permission key: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}

// Grant assigns a permission to an employee. Re-granting is a no-op.
func (r *PermissionRepository) Grant(ctx context.Context, employeeID, permissionID, grantedBy int64) error {
	query := `
		INSERT INTO employee_permissions (employee_id, permission_id, granted_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, permission_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, employeeID, permissionID, grantedBy); err != nil {
		return fmt.Errorf("failed to grant permission: %w", err)
	}
	return nil
}

// Revoke removes a permission from an employee.
func (r *PermissionRepository) Revoke(ctx context.Context, employeeID, permissionID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM employee_permissions WHERE employee_id = $1 AND permission_id = $2`,
		employeeID, permissionID,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
