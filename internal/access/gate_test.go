package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stockpilot-service/internal/domain/subscription"
)

func TestEvaluateSubscriptionProHasNoCeiling(t *testing.T) {
	res := EvaluateSubscription(subscription.Snapshot{
		Plan:       subscription.PlanPro,
		IsActive:   true,
		UsageCount: 999,
	}, 0)

	assert.False(t, res.Locked)
	assert.Empty(t, res.Message)
}

func TestEvaluateSubscriptionFreeUnderThreshold(t *testing.T) {
	res := EvaluateSubscription(subscription.Snapshot{
		Plan:       subscription.PlanFree,
		UsageCount: 9,
	}, 0)

	assert.False(t, res.Locked)
	assert.Equal(t, 1, res.Remaining)
}

func TestEvaluateSubscriptionFreeAtThresholdLocks(t *testing.T) {
	res := EvaluateSubscription(subscription.Snapshot{
		Plan:       subscription.PlanFree,
		UsageCount: 10,
	}, 0)

	assert.True(t, res.Locked)
	assert.NotEmpty(t, res.Message)
}

func TestEvaluateSubscriptionLapsedProIsFree(t *testing.T) {
	res := EvaluateSubscription(subscription.Snapshot{
		Plan:       subscription.PlanPro,
		IsActive:   false,
		UsageCount: 10,
	}, 0)

	assert.True(t, res.Locked)
}

func TestEvaluateSubscriptionCustomLimit(t *testing.T) {
	snap := subscription.Snapshot{Plan: subscription.PlanFree, UsageCount: 10}

	assert.False(t, EvaluateSubscription(snap, 25).Locked)
	assert.Equal(t, 15, EvaluateSubscription(snap, 25).Remaining)
	assert.True(t, EvaluateSubscription(snap, 5).Locked)
}

func TestLockEventIDIsStablePerPeriod(t *testing.T) {
	started := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := subscription.Snapshot{Plan: subscription.PlanFree, UsageCount: 10, StartedAt: started}

	a := LockEventID(42, snap)
	b := LockEventID(42, snap)
	assert.Equal(t, a, b)

	// a new period is a new event
	snap.StartedAt = started.AddDate(0, 1, 0)
	assert.NotEqual(t, a, LockEventID(42, snap))

	// and another tenant is a different event
	assert.NotEqual(t, a, LockEventID(7, subscription.Snapshot{StartedAt: started}))
}
