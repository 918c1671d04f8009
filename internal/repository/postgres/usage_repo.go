// internal/repository/postgres/usage_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageRepository counts the metered rows the free plan is limited by.
// The sales pages write those rows; this service only reads them.
type UsageRepository struct {
	db *pgxpool.Pool
}

func NewUsageRepository(db *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{db: db}
}

// CountTransactions totals live and archived sales rows for a tenant.
// Archived rows still count: archiving must not reset the meter.
func (r *UsageRepository) CountTransactions(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM sales_master_log WHERE user_id = $1) +
			(SELECT COUNT(*) FROM sales_master_history WHERE user_id = $1)
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}
