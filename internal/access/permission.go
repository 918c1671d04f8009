// internal/access/permission.go

// Package access holds the pure decision functions the routing shell and
// middleware gate on: permission evaluation, the subscription gate and
// page resolution. Nothing here performs I/O; callers pass value
// snapshots of session and billing state.
package access

// Set is an unordered set of permission keys.
type Set map[string]struct{}

// NewSet builds a Set from a permission key slice, dropping duplicates.
func NewSet(keys []string) Set {
	s := make(Set, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		s[k] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Keys returns the set's members as a slice, in no particular order.
func (s Set) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}

// CanAccess decides whether an identity holding permissions may use a
// feature gated by required.
//
// An unenforced feature is open to any authenticated identity no matter
// what its permission key says. An enforced feature requires membership.
// An enforced feature with no permission key is an authoring error and
// fails closed.
func CanAccess(permissions Set, required string, enforced bool) bool {
	if !enforced {
		return true
	}
	if required == "" {
		return false
	}
	return permissions.Has(required)
}
