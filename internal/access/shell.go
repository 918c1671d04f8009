// internal/access/shell.go
package access

import (
	"stockpilot-service/internal/domain/navigation"
	"stockpilot-service/internal/pkg/jwt"
)

// Outcome is what the routing shell decided to render.
type Outcome string

const (
	RenderPage     Outcome = "page"
	RenderOverview Outcome = "overview"
	RenderLocked   Outcome = "locked"
	RenderDenied   Outcome = "denied"
	RenderNotFound Outcome = "not_found"
)

// Viewer is the session snapshot a resolution is evaluated against. It is
// a value: resolving never mutates session state, and repeated denials
// are idempotent.
type Viewer struct {
	Role          string
	AdminUnlocked bool
	Permissions   Set
}

// Decision is the shell's answer for one page request. Entry is set only
// when a concrete menu row backs the outcome.
type Decision struct {
	Outcome Outcome           `json:"outcome"`
	PageID  string            `json:"page_id"`
	Entry   *navigation.Entry `json:"entry,omitempty"`
}

// Resolve maps (viewer, requestedPageID) to a rendering decision against
// the menu table.
//
// Order matters: unknown ids fall back to the dashboard before any gate
// runs, the subscription lock screens everything except the dashboard
// overview, and the elevated console checks role+unlock before the
// permission table is even consulted.
func Resolve(v Viewer, gate GateResult, table *navigation.Table, requestedPageID string) Decision {
	pageID := requestedPageID
	if _, known := table.Lookup(pageID); !known {
		pageID = navigation.PageDashboard
	}

	// Reachable only when the table itself has no dashboard row; the
	// product table always does.
	entry, ok := table.Lookup(pageID)
	if !ok {
		return Decision{Outcome: RenderNotFound, PageID: pageID}
	}

	if gate.Locked && pageID != navigation.PageDashboard {
		return Decision{Outcome: RenderLocked, PageID: pageID}
	}

	if pageID == navigation.PageDashboard {
		return Decision{Outcome: RenderOverview, PageID: pageID, Entry: &entry}
	}

	if entry.Elevated {
		if v.Role != jwt.RoleMD || !v.AdminUnlocked {
			return Decision{Outcome: RenderDenied, PageID: pageID, Entry: &entry}
		}
		return Decision{Outcome: RenderPage, PageID: pageID, Entry: &entry}
	}

	if !CanAccess(v.Permissions, entry.RequiredPermission, entry.Enforced) {
		return Decision{Outcome: RenderDenied, PageID: pageID, Entry: &entry}
	}

	return Decision{Outcome: RenderPage, PageID: pageID, Entry: &entry}
}
