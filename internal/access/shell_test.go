package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockpilot-service/internal/domain/navigation"
	"stockpilot-service/internal/pkg/jwt"
)

func mdViewer(unlocked bool) Viewer {
	return Viewer{Role: jwt.RoleMD, AdminUnlocked: unlocked, Permissions: NewSet(nil)}
}

func employeeViewer(perms ...string) Viewer {
	return Viewer{Role: jwt.RoleEmployee, Permissions: NewSet(perms)}
}

func TestResolveUnknownPageFallsBackToDashboard(t *testing.T) {
	table := navigation.Default()

	d := Resolve(employeeViewer(), GateResult{}, table, "no-such-page")

	assert.Equal(t, RenderOverview, d.Outcome)
	assert.Equal(t, navigation.PageDashboard, d.PageID)
}

func TestResolveLockScreensEverythingButDashboard(t *testing.T) {
	table := navigation.Default()
	locked := GateResult{Locked: true, Message: "upgrade"}

	d := Resolve(employeeViewer("inventory.page.access"), locked, table, navigation.PageInventory)
	assert.Equal(t, RenderLocked, d.Outcome)

	// the overview stays reachable so the owner can reach the upgrade flow
	d = Resolve(mdViewer(false), locked, table, navigation.PageDashboard)
	assert.Equal(t, RenderOverview, d.Outcome)
}

func TestResolveElevatedPageNeedsMDAndUnlock(t *testing.T) {
	table := navigation.Default()

	// MD without unlock: denied, no mutation possible (Viewer is a value)
	d := Resolve(mdViewer(false), GateResult{}, table, navigation.PageAdminReview)
	assert.Equal(t, RenderDenied, d.Outcome)

	// employee: denied under every subscription state
	for _, gate := range []GateResult{{}, {Locked: true}} {
		d = Resolve(employeeViewer("admin_review.page.access"), gate, table, navigation.PageAdminReview)
		assert.NotEqual(t, RenderPage, d.Outcome)
	}

	// MD with unlock renders
	d = Resolve(mdViewer(true), GateResult{}, table, navigation.PageAdminReview)
	assert.Equal(t, RenderPage, d.Outcome)
}

func TestResolveEnforcedEntryDelegatesToEvaluator(t *testing.T) {
	table := navigation.Default()

	d := Resolve(employeeViewer("sales.page.access"), GateResult{}, table, navigation.PageSales)
	assert.Equal(t, RenderPage, d.Outcome)

	d = Resolve(employeeViewer(), GateResult{}, table, navigation.PageSales)
	assert.Equal(t, RenderDenied, d.Outcome)
}

func TestResolveUnenforcedEntryIsOpen(t *testing.T) {
	table := navigation.Default()

	// vendors carries a permission key but is not enforced
	d := Resolve(employeeViewer(), GateResult{}, table, navigation.PageVendors)
	assert.Equal(t, RenderPage, d.Outcome)
}

func TestResolveIsIdempotent(t *testing.T) {
	table := navigation.Default()
	v := employeeViewer()

	first := Resolve(v, GateResult{}, table, navigation.PageSettings)
	second := Resolve(v, GateResult{}, table, navigation.PageSettings)

	assert.Equal(t, first, second)
	assert.Equal(t, RenderDenied, first.Outcome)
}

func TestResolveCustomTable(t *testing.T) {
	table := navigation.NewTable([]navigation.Entry{
		{ID: navigation.PageDashboard, DisplayName: "Home"},
		{ID: "reports", DisplayName: "Reports", RequiredPermission: "reports.view", Enforced: true},
	})

	d := Resolve(employeeViewer("reports.view"), GateResult{}, table, "reports")
	assert.Equal(t, RenderPage, d.Outcome)

	// an id absent from the table never errors, it lands on the overview
	d = Resolve(employeeViewer(), GateResult{}, table, "sales")
	assert.Equal(t, RenderOverview, d.Outcome)
}

func TestResolveTableWithoutDashboardRow(t *testing.T) {
	table := navigation.NewTable([]navigation.Entry{
		{ID: "reports", DisplayName: "Reports", RequiredPermission: "reports.view", Enforced: true},
	})

	// the fallback target itself is missing, so there is nothing to render
	d := Resolve(employeeViewer(), GateResult{}, table, "no-such-page")
	assert.Equal(t, RenderNotFound, d.Outcome)
	assert.Nil(t, d.Entry)
}

func TestResolveLockedDecisionCarriesNoEntry(t *testing.T) {
	table := navigation.Default()

	d := Resolve(employeeViewer("sales.page.access"), GateResult{Locked: true}, table, navigation.PageSales)

	assert.Equal(t, RenderLocked, d.Outcome)
	assert.Nil(t, d.Entry)

	d = Resolve(employeeViewer(), GateResult{}, table, navigation.PageSales)
	assert.Equal(t, RenderDenied, d.Outcome)
	if assert.NotNil(t, d.Entry) {
		assert.Equal(t, navigation.PageSales, d.Entry.ID)
	}
}
