// internal/service/permissions/codes_test.go
package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPermissionCode(t *testing.T) {
	cases := map[string]string{
		"sales":                        "PAGE_SALES",
		"sales.page.access":            "PAGE_SALES",
		"admin_review.page.access":     "PAGE_ADMIN_REVIEW",
		"inventory.edit_button.access": "BTN_INVENTORY_EDIT",
		"sales.report_tab.access":      "PAGE_SALES_REPORT",
		"sales.delete_button.access":   "BTN_SALES_DELETE",
		"customers.view":               "PAGE_CUSTOMERS_VIEW",
		"":                             "",
	}

	for key, want := range cases {
		assert.Equal(t, want, ToPermissionCode(key), "key %q", key)
	}
}

func TestCodesForDeduplicates(t *testing.T) {
	codes := CodesFor([]string{"sales", "sales.page.access", "inventory.page.access", ""})
	assert.Equal(t, []string{"PAGE_SALES", "PAGE_INVENTORY"}, codes)
}

func TestAliasKeys(t *testing.T) {
	aliases := AliasKeys("sales")
	assert.Contains(t, aliases, "sales")
	assert.Contains(t, aliases, "sales.page.access")
	assert.Contains(t, aliases, "sales.access")
	assert.Contains(t, aliases, "sales.view")
	assert.Contains(t, aliases, "sales.page")

	stripped := AliasKeys("sales.page.access")
	assert.Contains(t, stripped, "sales")
	assert.Contains(t, stripped, "sales.page.access")

	assert.Nil(t, AliasKeys(""))
}

func TestCheckToleratesAliasSpellings(t *testing.T) {
	svc := NewService(nil, nil, nil)

	held := []string{"sales.page.access", "inventory"}
	assert.True(t, svc.Check(held, "sales"))
	assert.True(t, svc.Check(held, "inventory.page.access"))
	assert.False(t, svc.Check(held, "settings"))
	assert.False(t, svc.Check(held, ""))

	results := svc.CheckMultiple(held, []string{"sales", "settings"})
	assert.True(t, results["sales"])
	assert.False(t, results["settings"])
}
