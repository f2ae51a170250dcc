package main

import (
	"testing"

	"github.com/madamisu/venue_backend/models"
)

// NOTE: events carry GM display names, so the conflict matrix is keyed by
// name. The staff query param has to land on those exact names or a busy
// GM looks free.
func TestCanonicalStaffNames(t *testing.T) {
	catalog := models.NewCatalog(nil, []*models.Staff{
		{ID: "st-1", Name: "ソラ"},
		{ID: "st-2", Name: "ミナト"},
	})

	staff := canonicalStaffNames(catalog, []string{"そら", "ソラ", "ミナト", "ゲスト"})
	want := []string{"ソラ", "ミナト", "ゲスト"}
	if len(staff) != len(want) {
		t.Fatalf("staff = %v, want %v", staff, want)
	}
	for i := range want {
		if staff[i] != want[i] {
			t.Errorf("staff[%d] = %q, want %q", i, staff[i], want[i])
		}
	}
}
