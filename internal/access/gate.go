// internal/access/gate.go
package access

import (
	"fmt"

	"stockpilot-service/internal/domain/subscription"
)

// DefaultFreePlanLimit is the metered-transaction ceiling of the free plan.
const DefaultFreePlanLimit = 10

// GateResult is the subscription gate's verdict over one snapshot.
type GateResult struct {
	Locked    bool   `json:"locked"`
	Message   string `json:"message,omitempty"`
	Remaining int    `json:"remaining"` // display only, free plan under the ceiling
}

// EvaluateSubscription applies the usage envelope to a snapshot.
//
// The effective plan folds expiry in: a pro row with is_active=false is a
// lapsed plan and is treated as free. Pro has no ceiling. Free locks once
// the usage count reaches the limit (limit <= 0 selects the default).
func EvaluateSubscription(snap subscription.Snapshot, limit int) GateResult {
	if limit <= 0 {
		limit = DefaultFreePlanLimit
	}

	if snap.Effective() == subscription.PlanPro {
		return GateResult{Locked: false}
	}

	if snap.UsageCount >= limit {
		return GateResult{
			Locked:  true,
			Message: "Free plan limit reached. Upgrade to Pro to keep recording transactions.",
		}
	}

	return GateResult{
		Locked:    false,
		Remaining: limit - snap.UsageCount,
	}
}

// LockEventID names a lock transition stably: one event per tenant per
// plan period, so the user-facing warning fires once however often the
// gate re-evaluates.
func LockEventID(userID int64, snap subscription.Snapshot) string {
	return fmt.Sprintf("lock:%d:%d", userID, snap.StartedAt.Unix())
}
