// internal/domain/subscription/entity.go
package subscription

import (
	"database/sql"
	"time"
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Subscription is the durable billing row for a tenant.
type Subscription struct {
	ID               int64          `json:"id" db:"id"`
	UserID           int64          `json:"user_id" db:"user_id"`
	Plan             Plan           `json:"plan" db:"plan"`
	IsActive         bool           `json:"is_active" db:"is_active"`
	PaymentReference sql.NullString `json:"payment_reference,omitempty" db:"payment_reference"`
	StartedAt        time.Time      `json:"started_at" db:"started_at"`
	ExpiresAt        sql.NullTime   `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// Snapshot is the value the gate evaluates: plan state plus the metered
// usage count, fetched together and replaced as a whole.
type Snapshot struct {
	Plan       Plan      `json:"plan"`
	IsActive   bool      `json:"is_active"`
	UsageCount int       `json:"transaction_count"`
	StartedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at,omitempty"`
}

// Effective returns the plan tier that actually grants access: a "pro"
// row whose is_active flag is down is an expired plan and grants free-tier
// rights only.
func (s Snapshot) Effective() Plan {
	if s.Plan == PlanPro && s.IsActive {
		return PlanPro
	}
	return PlanFree
}

// PlanPrice is display pricing for the upgrade flow.
type PlanPrice struct {
	Plan          Plan    `json:"plan"`
	Cycle         string  `json:"cycle"` // monthly, yearly
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	YearlySavings float64 `json:"yearly_savings,omitempty"`
}
