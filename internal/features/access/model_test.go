package access

import (
	"testing"

	"omnisuite/internal/features/page"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type entry struct {
	path      string
	module    string
	grant     bool
	canView   int
	canCreate int
	canEdit   int
	canDelete int
}

func buildTable(t *testing.T, failClosed bool, entries []entry) AccessTable {
	t.Helper()
	var pages []page.Page
	var grants []page.PermissionGrant
	for _, e := range entries {
		id := primitive.NewObjectID()
		pages = append(pages, page.Page{ID: id, Path: e.path, Module: e.module})
		if e.grant {
			grants = append(grants, page.PermissionGrant{
				PageID:    id,
				UserNo:    1,
				CanView:   e.canView,
				CanCreate: e.canCreate,
				CanEdit:   e.canEdit,
				CanDelete: e.canDelete,
			})
		}
	}
	return Compile(1, pages, grants, failClosed)
}

func TestEmptyTableFailsOpen(t *testing.T) {
	table := Compile(1, nil, nil, false)

	paths := []string{"/", "/inventory/items", "/anything/at/all"}
	actions := []string{ActionView, ActionCreate, ActionEdit, ActionDelete}
	for _, p := range paths {
		for _, a := range actions {
			if !table.HasAccess(p, a) {
				t.Errorf("empty table should allow %s on %s", a, p)
			}
		}
	}
	if !table.HasModuleAccess("inventory") {
		t.Error("empty table should allow any module")
	}
}

func TestEmptyTableFailClosed(t *testing.T) {
	table := Compile(1, nil, nil, true)

	if table.HasAccess("/inventory/items", ActionView) {
		t.Error("fail-closed empty table should deny access")
	}
	if table.HasModuleAccess("inventory") {
		t.Error("fail-closed empty table should deny module access")
	}
}

func TestInvalidOwnerYieldsEmptyTable(t *testing.T) {
	pages := []page.Page{{ID: primitive.NewObjectID(), Path: "/inventory/items", Module: "inventory"}}

	for _, owner := range []int64{0, -3} {
		table := Compile(owner, pages, nil, false)
		if len(table.Patterns) != 0 {
			t.Errorf("owner %d should compile to an empty table", owner)
		}
	}
}

func TestExactMatchBeatsRegex(t *testing.T) {
	// The param pattern is declared first and denies view; the later exact
	// entry must still win for its literal path.
	table := buildTable(t, false, []entry{
		{path: "/a/:id", grant: true, canView: 0},
		{path: "/a/5", grant: true, canView: 1},
	})

	if !table.HasAccess("/a/5", ActionView) {
		t.Error("exact literal match must win over an earlier regex entry")
	}
	if table.HasAccess("/a/7", ActionView) {
		t.Error("/a/7 should fall through to the denying param entry")
	}
}

func TestRegexFirstDeclaredWins(t *testing.T) {
	table := buildTable(t, false, []entry{
		{path: "/docs/:type", grant: true, canView: 0},
		{path: "/docs/:name", grant: true, canView: 1},
	})

	if table.HasAccess("/docs/grn", ActionView) {
		t.Error("first-declared regex entry must win, no specificity ranking")
	}
}

func TestEditSuffixBaseFallback(t *testing.T) {
	table := buildTable(t, false, []entry{
		{path: "/inventory/items", grant: true, canView: 1, canEdit: 0},
	})

	if !table.HasAccess("/inventory/items/edit", ActionEdit) {
		t.Error("base can_view should open the /edit screen")
	}
}

func TestCreateSuffixBaseFallback(t *testing.T) {
	table := buildTable(t, false, []entry{
		{path: "/inventory/items", grant: true, canView: 1, canCreate: 0},
	})

	if !table.HasAccess("/inventory/items/new", ActionCreate) {
		t.Error("base can_view should open the /new screen")
	}
	if !table.HasAccess("/inventory/items/create", ActionCreate) {
		t.Error("base can_view should open the /create screen")
	}
}

func TestSuffixDeniedWhenBaseFullyRestricted(t *testing.T) {
	table := buildTable(t, false, []entry{
		{path: "/inventory/items", grant: true, canView: 0, canEdit: 0, canCreate: 0},
	})

	if table.HasAccess("/inventory/items/edit", ActionEdit) {
		t.Error("edit should be denied when base has neither view nor edit")
	}
	if table.HasAccess("/inventory/items/new", ActionCreate) {
		t.Error("create should be denied when base has neither view nor create")
	}
}

func TestSuffixFallsBackToFullPathEntry(t *testing.T) {
	// No base entry exists, but the /edit route itself is registered.
	table := buildTable(t, false, []entry{
		{path: "/inventory/items/edit", grant: true, canView: 0, canEdit: 1},
		{path: "/sales/orders", module: "sales"},
	})

	if !table.HasAccess("/inventory/items/edit", ActionEdit) {
		t.Error("full-path /edit entry should grant via can_edit")
	}
}

func TestUnknownPathFailsOpen(t *testing.T) {
	table := buildTable(t, false, []entry{
		{path: "/inventory/items", module: "inventory"},
	})

	if !table.HasAccess("/totally/unknown", ActionDelete) {
		t.Error("unknown path should fail open on a non-empty table")
	}
	if !table.HasAccess("/totally/unknown/edit", ActionEdit) {
		t.Error("unknown /edit path should fail open")
	}
}

func TestUnknownPathFailClosed(t *testing.T) {
	table := buildTable(t, true, []entry{
		{path: "/inventory/items", module: "inventory"},
	})

	if table.HasAccess("/totally/unknown", ActionView) {
		t.Error("unknown path should be denied under fail-closed")
	}
}

func TestDefaultViewOnlySeed(t *testing.T) {
	table := buildTable(t, false, []entry{
		{path: "/sales/orders", module: "sales"},
	})

	if !table.HasAccess("/sales/orders", ActionView) {
		t.Error("page without grant should default to view access")
	}
	if table.HasAccess("/sales/orders", ActionDelete) {
		t.Error("page without grant should not allow delete")
	}
}

func TestParamPatternMatching(t *testing.T) {
	table := buildTable(t, false, []entry{
		{path: "/inventory/grn/:id", grant: true, canView: 1, canDelete: 1},
	})

	tests := []struct {
		path string
		want bool
	}{
		{"/inventory/grn/42", true},
		{"/inventory/grn/abc-def", true},
		{"/inventory/grn/", false},     // param requires at least one char
		{"/inventory/grn/42/x", false}, // extra segment, anchored
		{"/inventory/grnX42", false},   // separator must be literal
	}
	for _, tt := range tests {
		e := table.find(tt.path)
		if (e != nil) != tt.want {
			t.Errorf("find(%q) matched=%v, want %v", tt.path, e != nil, tt.want)
		}
	}
}

func TestModuleListDerivation(t *testing.T) {
	table := buildTable(t, false, []entry{
		{path: "/inventory/items", module: "inventory"},
		{path: "/inventory/grn", module: "inventory"},
		{path: "/purchasing/orders", module: "purchasing", grant: true, canView: 0},
		{path: "/sales/orders", module: "sales"},
		{path: "/misc/tools", module: ""},
	})

	want := []string{"inventory", "sales"}
	if len(table.Modules) != len(want) {
		t.Fatalf("modules = %v, want %v", table.Modules, want)
	}
	for i, m := range want {
		if table.Modules[i] != m {
			t.Fatalf("modules = %v, want %v", table.Modules, want)
		}
	}

	if !table.HasModuleAccess("inventory") {
		t.Error("inventory should be accessible")
	}
	if table.HasModuleAccess("purchasing") {
		t.Error("purchasing has no viewable page, should be hidden")
	}
	if table.HasModuleAccess("accounting") {
		t.Error("unknown module should be hidden on a non-empty list")
	}
}

func TestGrantOverridesDefault(t *testing.T) {
	table := buildTable(t, false, []entry{
		{path: "/inventory/adjustments", grant: true, canView: 1, canCreate: 1, canEdit: 1, canDelete: 0},
	})

	if !table.HasAccess("/inventory/adjustments", ActionCreate) {
		t.Error("grant can_create should allow create")
	}
	if table.HasAccess("/inventory/adjustments", ActionDelete) {
		t.Error("grant can_delete=0 should deny delete")
	}
}

func TestFlagCoercion(t *testing.T) {
	// Legacy clients send arbitrary truthy numerics; anything non-zero is 1
	table := buildTable(t, false, []entry{
		{path: "/sales/invoices", grant: true, canView: 7, canEdit: -1},
	})

	e := table.find("/sales/invoices")
	if e == nil {
		t.Fatal("entry missing")
	}
	if e.CanView != 1 || e.CanEdit != 1 || e.CanCreate != 0 {
		t.Errorf("flags not coerced: %+v", e)
	}
}
