// internal/repository/postgres/audit_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockpilot-service/internal/domain/auth"
)

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateLoginLog records a successful authentication.
func (r *AuditRepository) CreateLoginLog(ctx context.Context, log *auth.LoginLog) error {
	query := `
		INSERT INTO login_logs (user_id, username, role, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, logged_at
	`

	err := r.db.QueryRow(ctx, query,
		log.UserID, log.Username, log.Role, log.IPAddress, log.UserAgent,
	).Scan(&log.ID, &log.LoggedAt)
	if err != nil {
		return fmt.Errorf("failed to create login log: %w", err)
	}

	return nil
}

// ListLoginLogs returns the most recent authentications, newest first.
func (r *AuditRepository) ListLoginLogs(ctx context.Context, limit int) ([]auth.LoginLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, user_id, username, role, ip_address, user_agent, logged_at
		FROM login_logs
		ORDER BY logged_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list login logs: %w", err)
	}
	defer rows.Close()

	var logs []auth.LoginLog
	for rows.Next() {
		var l auth.LoginLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Username, &l.Role, &l.IPAddress, &l.UserAgent, &l.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan login log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
