package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockpilot-service/internal/domain/subscription"
)

func TestPlansDerivedSavings(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nil, 10, zap.NewNop())

	plans := svc.Plans()
	require.Len(t, plans, 2)

	byCycle := map[string]subscription.PlanPrice{}
	for _, p := range plans {
		byCycle[p.Cycle] = p
	}

	assert.Equal(t, 15000.0, byCycle["monthly"].Amount)
	assert.Equal(t, "NGN", byCycle["monthly"].Currency)

	// 12 months at the monthly rate equals the yearly price exactly, so
	// no savings figure is advertised.
	assert.Equal(t, 180000.0, byCycle["yearly"].Amount)
	assert.Zero(t, byCycle["yearly"].YearlySavings)
}

func TestParseReference(t *testing.T) {
	userID, planKey, err := parseReference("42-monthly_pro-k3XYZ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "monthly_pro", planKey)

	_, _, err = parseReference("not-a-number")
	assert.Error(t, err)

	_, _, err = parseReference("42")
	assert.Error(t, err)
}

func TestPlanDays(t *testing.T) {
	assert.Equal(t, 30, planDays("monthly_pro"))
	assert.Equal(t, 365, planDays("yearly"))
	assert.Equal(t, 30, planDays("something_else"))
}
