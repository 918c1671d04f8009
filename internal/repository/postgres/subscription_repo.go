// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stockpilot-service/internal/domain/subscription"
	xerrors "stockpilot-service/internal/pkg/errors"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
	tx *DB
}

func NewSubscriptionRepository(db *pgxpool.Pool, tx *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, tx: tx}
}

// FindLatestByUser returns the most recent billing row for a tenant.
func (r *SubscriptionRepository) FindLatestByUser(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	query := `
		SELECT id, user_id, plan, is_active, payment_reference, started_at, expires_at, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT 1
	`

	var s subscription.Subscription
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.Plan, &s.IsActive, &s.PaymentReference,
		&s.StartedAt, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return &s, nil
}

// EnsureFreeDefault inserts a free-plan row for a tenant that has none,
// then returns the current row either way.
func (r *SubscriptionRepository) EnsureFreeDefault(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	sub, err := r.FindLatestByUser(ctx, userID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO subscriptions (user_id, plan, is_active)
		VALUES ($1, 'free', FALSE)
		RETURNING id, user_id, plan, is_active, payment_reference, started_at, expires_at, created_at, updated_at
	`

	var s subscription.Subscription
	err = r.db.QueryRow(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &s.Plan, &s.IsActive, &s.PaymentReference,
		&s.StartedAt, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create default subscription: %w", err)
	}

	return &s, nil
}

// Activate records a verified payment inside one transaction: older
// active rows are flipped off and a fresh pro row is inserted with the
// payment reference, so at most one row per tenant is ever active.
func (r *SubscriptionRepository) Activate(ctx context.Context, userID int64, reference string, expiresAt time.Time) (*subscription.Subscription, error) {
	var s subscription.Subscription

	err := r.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		deactivate := `UPDATE subscriptions SET is_active = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_active = TRUE`
		if _, err := tx.Exec(ctx, deactivate, userID); err != nil {
			return fmt.Errorf("failed to retire previous subscription: %w", err)
		}

		insert := `
			INSERT INTO subscriptions (user_id, plan, is_active, payment_reference, expires_at)
			VALUES ($1, 'pro', TRUE, $2, $3)
			RETURNING id, user_id, plan, is_active, payment_reference, started_at, expires_at, created_at, updated_at
		`

		if err := tx.QueryRow(ctx, insert, userID, reference, expiresAt).Scan(
			&s.ID, &s.UserID, &s.Plan, &s.IsActive, &s.PaymentReference,
			&s.StartedAt, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to activate subscription: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// Deactivate flips is_active off, used when an expiry check finds a pro
// row past its expires_at.
func (r *SubscriptionRepository) Deactivate(ctx context.Context, subscriptionID int64) error {
	query := `UPDATE subscriptions SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, subscriptionID); err != nil {
		return fmt.Errorf("failed to deactivate subscription: %w", err)
	}
	return nil
}

// FindByReference looks up a subscription by payment reference, used to
// make payment verification idempotent.
func (r *SubscriptionRepository) FindByReference(ctx context.Context, reference string) (*subscription.Subscription, error) {
	query := `
		SELECT id, user_id, plan, is_active, payment_reference, started_at, expires_at, created_at, updated_at
		FROM subscriptions
		WHERE payment_reference = $1
		ORDER BY started_at DESC
		LIMIT 1
	`

	var s subscription.Subscription
	err := r.db.QueryRow(ctx, query, reference).Scan(
		&s.ID, &s.UserID, &s.Plan, &s.IsActive, &s.PaymentReference,
		&s.StartedAt, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription by reference: %w", err)
	}

	return &s, nil
}
