// internal/domain/navigation/menu.go
package navigation

// Page ids known to the routing shell. Unknown ids resolve to PageDashboard.
const (
	PageDashboard    = "dashboard"
	PageSales        = "sales"
	PageInventory    = "inventory"
	PageRequisitions = "requisitions"
	PageVendors      = "vendors"
	PageExpenses     = "expenses"
	PageCustomers    = "customers"
	PageSettings     = "settings"
	PageAdminReview  = "admin_review" // elevated console, needs md + unlock
)

// Entry is one row of the menu table. Enforced is deliberately explicit:
// an entry with a permission key but Enforced=false is open to any
// authenticated identity, the key is informational only.
type Entry struct {
	ID                 string `json:"id"`
	DisplayName        string `json:"display_name"`
	RequiredPermission string `json:"required_permission,omitempty"`
	Enforced           bool   `json:"permission_enforced"`
	Elevated           bool   `json:"-"` // md + admin unlock required
}

// Table is the exhaustive menu table. Every reachable page has a row here.
type Table struct {
	entries []Entry
	byID    map[string]Entry
}

func NewTable(entries []Entry) *Table {
	byID := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return &Table{entries: entries, byID: byID}
}

// Lookup returns the entry for a page id.
func (t *Table) Lookup(id string) (Entry, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// Entries returns the table in menu order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Default is the product menu. Only entries explicitly marked Enforced are
// permission-gated; vendors/expenses/customers carry their key for display
// purposes but are open to any authenticated identity.
func Default() *Table {
	return NewTable([]Entry{
		{ID: PageDashboard, DisplayName: "Dashboard"},
		{ID: PageSales, DisplayName: "Sales", RequiredPermission: "sales.page.access", Enforced: true},
		{ID: PageInventory, DisplayName: "Inventory", RequiredPermission: "inventory.page.access", Enforced: true},
		{ID: PageRequisitions, DisplayName: "Requisitions", RequiredPermission: "requisitions.page.access", Enforced: true},
		{ID: PageVendors, DisplayName: "Vendor Marketplace", RequiredPermission: "vendors.page.access"},
		{ID: PageExpenses, DisplayName: "Expenses", RequiredPermission: "expenses.page.access"},
		{ID: PageCustomers, DisplayName: "Customers", RequiredPermission: "customers.page.access"},
		{ID: PageSettings, DisplayName: "Settings", RequiredPermission: "settings.page.access", Enforced: true},
		{ID: PageAdminReview, DisplayName: "Admin Review", RequiredPermission: "admin_review.page.access", Enforced: true, Elevated: true},
	})
}
