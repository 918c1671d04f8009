// internal/repository/postgres/vendor_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"stockpilot-service/internal/domain/vendor"
	xerrors "stockpilot-service/internal/pkg/errors"
)

type VendorRepository struct {
	db *pgxpool.Pool
}

func NewVendorRepository(db *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{db: db}
}

// CreateVendor inserts a pending registration.
func (r *VendorRepository) CreateVendor(ctx context.Context, v *vendor.Vendor) error {
	query := `
		INSERT INTO vendors (vendor_code, user_id, business_name, contact_email, categories)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, submitted_at
	`

	err := r.db.QueryRow(ctx, query,
		v.VendorCode, v.UserID, v.BusinessName, v.ContactEmail, pq.Array(v.Categories),
	).Scan(&v.ID, &v.Status, &v.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}

	return nil
}

// FindVendor retrieves one registration by id.
func (r *VendorRepository) FindVendor(ctx context.Context, id int64) (*vendor.Vendor, error) {
	query := `
		SELECT id, vendor_code, user_id, business_name, contact_email, categories,
		       status, review_notes, reviewed_by, reviewed_at, submitted_at
		FROM vendors
		WHERE id = $1
	`

	var v vendor.Vendor
	var categories []string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.VendorCode, &v.UserID, &v.BusinessName, &v.ContactEmail, pq.Array(&categories),
		&v.Status, &v.ReviewNotes, &v.ReviewedBy, &v.ReviewedAt, &v.SubmittedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find vendor: %w", err)
	}
	v.Categories = categories

	return &v, nil
}

// ListPendingVendors returns registrations awaiting review, oldest first.
func (r *VendorRepository) ListPendingVendors(ctx context.Context) ([]vendor.Vendor, error) {
	query := `
		SELECT id, vendor_code, user_id, business_name, contact_email, categories,
		       status, review_notes, reviewed_by, reviewed_at, submitted_at
		FROM vendors
		WHERE status = 'pending'
		ORDER BY submitted_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending vendors: %w", err)
	}
	defer rows.Close()

	var vendors []vendor.Vendor
	for rows.Next() {
		var v vendor.Vendor
		var categories []string
		err := rows.Scan(
			&v.ID, &v.VendorCode, &v.UserID, &v.BusinessName, &v.ContactEmail, pq.Array(&categories),
			&v.Status, &v.ReviewNotes, &v.ReviewedBy, &v.ReviewedAt, &v.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		v.Categories = categories
		vendors = append(vendors, v)
	}

	return vendors, rows.Err()
}

// UpdateVendorReview records a review decision on a pending registration.
// A row already reviewed is not re-reviewable.
func (r *VendorRepository) UpdateVendorReview(ctx context.Context, id int64, status vendor.ReviewStatus, notes, reviewedBy string) (*vendor.Vendor, error) {
	query := `
		UPDATE vendors
		SET status = $2, review_notes = $3, reviewed_by = $4, reviewed_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, vendor_code, user_id, business_name, contact_email, categories,
		          status, review_notes, reviewed_by, reviewed_at, submitted_at
	`

	var v vendor.Vendor
	var categories []string
	err := r.db.QueryRow(ctx, query, id, status, notes, reviewedBy).Scan(
		&v.ID, &v.VendorCode, &v.UserID, &v.BusinessName, &v.ContactEmail, pq.Array(&categories),
		&v.Status, &v.ReviewNotes, &v.ReviewedBy, &v.ReviewedAt, &v.SubmittedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to review vendor: %w", err)
	}
	v.Categories = categories

	return &v, nil
}

// CreateProduct inserts a pending catalogue submission.
func (r *VendorRepository) CreateProduct(ctx context.Context, p *vendor.Product) error {
	query := `
		INSERT INTO vendor_products (vendor_id, name, price)
		VALUES ($1, $2, $3)
		RETURNING id, status, submitted_at
	`

	if err := r.db.QueryRow(ctx, query, p.VendorID, p.Name, p.Price).Scan(&p.ID, &p.Status, &p.SubmittedAt); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// ListPendingProducts returns catalogue submissions awaiting review.
func (r *VendorRepository) ListPendingProducts(ctx context.Context) ([]vendor.Product, error) {
	query := `
		SELECT id, vendor_id, name, price, status, review_notes, reviewed_by, reviewed_at, submitted_at
		FROM vendor_products
		WHERE status = 'pending'
		ORDER BY submitted_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending products: %w", err)
	}
	defer rows.Close()

	var products []vendor.Product
	for rows.Next() {
		var p vendor.Product
		err := rows.Scan(
			&p.ID, &p.VendorID, &p.Name, &p.Price,
			&p.Status, &p.ReviewNotes, &p.ReviewedBy, &p.ReviewedAt, &p.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// UpdateProductReview records a review decision on a pending submission.
func (r *VendorRepository) UpdateProductReview(ctx context.Context, id int64, status vendor.ReviewStatus, notes, reviewedBy string) (*vendor.Product, error) {
	query := `
		UPDATE vendor_products
		SET status = $2, review_notes = $3, reviewed_by = $4, reviewed_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, vendor_id, name, price, status, review_notes, reviewed_by, reviewed_at, submitted_at
	`

	var p vendor.Product
	err := r.db.QueryRow(ctx, query, id, status, notes, reviewedBy).Scan(
		&p.ID, &p.VendorID, &p.Name, &p.Price,
		&p.Status, &p.ReviewNotes, &p.ReviewedBy, &p.ReviewedAt, &p.SubmittedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to review product: %w", err)
	}

	return &p, nil
}
