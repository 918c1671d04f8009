// internal/service/permissions/codes.go
package permissions

import "strings"

// actionWords are the dotted segments that name an action rather than a
// surface, e.g. "inventory.edit_button.access".
var actionWords = map[string]struct{}{
	"edit": {}, "delete": {}, "add": {}, "create": {},
	"update": {}, "view": {}, "export": {}, "report": {}, "print": {},
}

var buttonActions = map[string]struct{}{
	"EDIT": {}, "DELETE": {}, "ADD": {}, "CREATE": {}, "UPDATE": {},
}

// ToPermissionCode converts a dotted resource key to the UPPER_SNAKE
// code clients key their UI elements by.
//
//	"sales" or "sales.page.access"   => "PAGE_SALES"
//	"admin_review.page.access"       => "PAGE_ADMIN_REVIEW"
//	"inventory.edit_button.access"   => "BTN_INVENTORY_EDIT"
//	"sales.report_tab.access"        => "PAGE_SALES_REPORT"
func ToPermissionCode(resourceKey string) string {
	if resourceKey == "" {
		return ""
	}

	key := strings.ToLower(strings.TrimSpace(resourceKey))
	parts := strings.Split(key, ".")
	base := parts[0]

	var action string
	for _, p := range parts[1:] {
		if _, ok := actionWords[p]; ok {
			action = strings.ToUpper(p)
			break
		}
		if trimmed, ok := strings.CutSuffix(p, "_button"); ok {
			action = strings.ToUpper(trimmed)
			break
		}
		if trimmed, ok := strings.CutSuffix(p, "_tab"); ok {
			action = strings.ToUpper(trimmed)
			break
		}
	}

	_, isButtonAction := buttonActions[action]

	var code string
	switch {
	case strings.Contains(key, "button") || isButtonAction:
		if action == "" {
			action = "ACTION"
		}
		code = "BTN_" + strings.ToUpper(base) + "_" + action
	case strings.Contains(key, "report") && strings.Contains(key, "tab"):
		code = "PAGE_" + strings.ToUpper(base) + "_REPORT"
	default:
		code = "PAGE_" + strings.ToUpper(base)
		if action != "" {
			code += "_" + action
		}
	}

	return strings.ReplaceAll(code, "__", "_")
}

// CodesFor maps resource keys to deduplicated permission codes,
// preserving first-seen order.
func CodesFor(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	codes := make([]string, 0, len(keys))
	for _, k := range keys {
		code := ToPermissionCode(k)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// AliasKeys expands a permission key into the naming variants grants may
// have been stored under. "sales" and "sales.page.access" name the same
// capability; denying one while granting the other would be a data bug,
// not a policy.
func AliasKeys(key string) []string {
	if key == "" {
		return nil
	}

	seen := map[string]struct{}{key: {}}
	keys := []string{key}
	add := func(k string) {
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	for _, suffix := range []string{".page.access", ".access", ".view", ".page"} {
		if !strings.HasSuffix(key, suffix) {
			add(key + suffix)
		}
		if trimmed, ok := strings.CutSuffix(key, suffix); ok {
			add(trimmed)
		}
	}

	return keys
}
