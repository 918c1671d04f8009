package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccessUnenforcedIsAlwaysOpen(t *testing.T) {
	cases := []struct {
		name     string
		set      Set
		required string
	}{
		{"empty set, empty key", NewSet(nil), ""},
		{"empty set, some key", NewSet(nil), "sales.page.access"},
		{"set without key", NewSet([]string{"inventory.page.access"}), "sales.page.access"},
		{"set with key", NewSet([]string{"sales.page.access"}), "sales.page.access"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, CanAccess(tc.set, tc.required, false))
		})
	}
}

func TestCanAccessEnforcedIsMembership(t *testing.T) {
	set := NewSet([]string{"sales.page.access", "settings.page.access"})

	assert.True(t, CanAccess(set, "sales.page.access", true))
	assert.True(t, CanAccess(set, "settings.page.access", true))
	assert.False(t, CanAccess(set, "inventory.page.access", true))
	assert.False(t, CanAccess(NewSet(nil), "sales.page.access", true))
}

func TestCanAccessEnforcedWithoutKeyFailsClosed(t *testing.T) {
	set := NewSet([]string{"sales.page.access"})
	assert.False(t, CanAccess(set, "", true))
}

func TestCanAccessIsIdempotent(t *testing.T) {
	set := NewSet([]string{"sales.page.access"})

	first := CanAccess(set, "sales.page.access", true)
	second := CanAccess(set, "sales.page.access", true)

	assert.Equal(t, first, second)
	// evaluation must not mutate the set
	assert.Equal(t, 1, len(set))
}

func TestNewSetDropsDuplicatesAndEmpties(t *testing.T) {
	set := NewSet([]string{"a", "a", "", "b"})
	assert.Equal(t, 2, len(set))
	assert.True(t, set.Has("a"))
	assert.True(t, set.Has("b"))
	assert.False(t, set.Has(""))
}
