package services

import (
	"context"
	"errors"
	"testing"

	"github.com/skywardclean/ordering-backend/internal/types"
)

func TestNormalizeSiteName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "already_clean", in: "RIVERSIDE PLAZA", want: "RIVERSIDE PLAZA"},
		{name: "lowercase", in: "riverside plaza", want: "RIVERSIDE PLAZA"},
		{name: "punctuation_runs_collapse", in: "Riverside -- Plaza!!", want: "RIVERSIDE PLAZA"},
		{name: "leading_trailing_junk", in: "  (Riverside Plaza)  ", want: "RIVERSIDE PLAZA"},
		{name: "digits_kept", in: "Depot #42", want: "DEPOT 42"},
		{name: "empty", in: "", want: ""},
		{name: "only_junk", in: "--- !!!", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeSiteName(tc.in); got != tc.want {
				t.Fatalf("NormalizeSiteName(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestResolveSiteCachesByNormalizedName(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	rec := newTestReconciler(gdb, r)
	ctx := context.Background()

	first, err := rec.ResolveSite(ctx, "Riverside Plaza")
	if err != nil {
		t.Fatalf("ResolveSite: %v", err)
	}
	// Different spelling, same normalized form: cache hit within the run.
	second, err := rec.ResolveSite(ctx, "riverside -- plaza")
	if err != nil {
		t.Fatalf("ResolveSite variant: %v", err)
	}
	if first != second {
		t.Fatalf("variant spelling resolved to %d, want %d", second, first)
	}

	sites, err := r.sites.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sites) != 1 {
		t.Fatalf("got %d sites, want 1", len(sites))
	}
	if sites[0].Name != "Riverside Plaza" {
		t.Fatalf("stored name %q, want the literal first spelling", sites[0].Name)
	}
}

func TestResolveSiteLiteralLookupAcrossRuns(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	ctx := context.Background()

	first, err := newTestReconciler(gdb, r).ResolveSite(ctx, "Oak Mall")
	if err != nil {
		t.Fatalf("ResolveSite: %v", err)
	}

	// A fresh run has an empty cache. The exact literal name reuses the row;
	// a variant spelling only hits the store by literal match, so it creates
	// a second row.
	rec2 := newTestReconciler(gdb, r)
	exact, err := rec2.ResolveSite(ctx, "Oak Mall")
	if err != nil {
		t.Fatalf("ResolveSite exact: %v", err)
	}
	if exact != first {
		t.Fatalf("exact literal resolved to %d, want %d", exact, first)
	}
	variant, err := rec2.ResolveSite(ctx, "oak mall")
	if err != nil {
		t.Fatalf("ResolveSite variant: %v", err)
	}
	if variant != first {
		t.Fatalf("variant after exact should hit the run cache, got %d want %d", variant, first)
	}

	rec3 := newTestReconciler(gdb, r)
	fresh, err := rec3.ResolveSite(ctx, "OAK MALL!")
	if err != nil {
		t.Fatalf("ResolveSite fresh variant: %v", err)
	}
	if fresh == first {
		t.Fatalf("literal store lookup should not match a variant spelling")
	}
}

func TestResolveEmployeeFirstRowWins(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	ctx := context.Background()

	a, err := r.employees.Create(ctx, nil, &types.Employee{FullName: "Dana Reyes"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := r.employees.Create(ctx, nil, &types.Employee{FullName: "Dana Reyes"}); err != nil {
		t.Fatalf("Create duplicate: %v", err)
	}

	rec := newTestReconciler(gdb, r)
	got, err := rec.ResolveEmployee(ctx, "Dana Reyes")
	if err != nil {
		t.Fatalf("ResolveEmployee: %v", err)
	}
	if got != a.ID {
		t.Fatalf("resolved to %d, want first stored row %d", got, a.ID)
	}
}

func TestResolveItemIdempotent(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	rec := newTestReconciler(gdb, r)
	ctx := context.Background()

	sku := "HD-100"
	first, err := rec.ResolveItem(ctx, &sku, "Glass Cleaner", types.CategoryConsumables)
	if err != nil {
		t.Fatalf("ResolveItem: %v", err)
	}

	// Same pair again, both with a warm cache and a fresh one.
	again, err := rec.ResolveItem(ctx, &sku, "Glass Cleaner", types.CategoryConsumables)
	if err != nil {
		t.Fatalf("ResolveItem again: %v", err)
	}
	if again != first {
		t.Fatalf("second resolve returned %d, want %d", again, first)
	}
	cold, err := newTestReconciler(gdb, r).ResolveItem(ctx, &sku, "Glass Cleaner", types.CategoryConsumables)
	if err != nil {
		t.Fatalf("ResolveItem cold: %v", err)
	}
	if cold != first {
		t.Fatalf("cold resolve returned %d, want %d", cold, first)
	}

	items, err := r.items.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
}

func TestResolveItemSameSKUDifferentName(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	rec := newTestReconciler(gdb, r)
	ctx := context.Background()

	sku := "HD-200"
	a, err := rec.ResolveItem(ctx, &sku, "Trash Bags 33gal", types.CategoryConsumables)
	if err != nil {
		t.Fatalf("ResolveItem: %v", err)
	}
	b, err := rec.ResolveItem(ctx, &sku, "Trash Bags 55gal", types.CategoryConsumables)
	if err != nil {
		t.Fatalf("ResolveItem second name: %v", err)
	}
	if a == b {
		t.Fatalf("distinct (sku, name) pairs must be distinct items")
	}
}

func TestResolveItemRepairsNameEqualsSKU(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	ctx := context.Background()

	// Historical inversion: the sku value was seeded into the name column.
	seeded, err := r.items.Create(ctx, nil, &types.Item{Name: "HD-300"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec := newTestReconciler(gdb, r)
	sku := "HD-300"
	got, err := rec.ResolveItem(ctx, &sku, "Floor Squeegee", types.CategorySupply)
	if err != nil {
		t.Fatalf("ResolveItem: %v", err)
	}
	if got != seeded.ID {
		t.Fatalf("repair resolved to %d, want the seeded row %d", got, seeded.ID)
	}

	fixed, err := r.items.GetByID(ctx, nil, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if fixed.SKU == nil || *fixed.SKU != "HD-300" || fixed.Name != "Floor Squeegee" {
		t.Fatalf("row not corrected in place: sku=%v name=%q", fixed.SKU, fixed.Name)
	}

	// After the repair the normal pair match finds the same row.
	again, err := newTestReconciler(gdb, r).ResolveItem(ctx, &sku, "Floor Squeegee", types.CategorySupply)
	if err != nil {
		t.Fatalf("ResolveItem after repair: %v", err)
	}
	if again != seeded.ID {
		t.Fatalf("post-repair resolve returned %d, want %d", again, seeded.ID)
	}
}

func TestResolveItemNullSKUMatchesByName(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	rec := newTestReconciler(gdb, r)
	ctx := context.Background()

	first, err := rec.ResolveItem(ctx, nil, "Wet Floor Sign", types.CategorySupply)
	if err != nil {
		t.Fatalf("ResolveItem: %v", err)
	}
	again, err := newTestReconciler(gdb, r).ResolveItem(ctx, nil, "Wet Floor Sign", types.CategorySupply)
	if err != nil {
		t.Fatalf("ResolveItem again: %v", err)
	}
	if again != first {
		t.Fatalf("null-sku resolve returned %d, want %d", again, first)
	}

	// A row with the same name but a sku is a different identity.
	sku := "HD-400"
	withSKU, err := rec.ResolveItem(ctx, &sku, "Wet Floor Sign", types.CategorySupply)
	if err != nil {
		t.Fatalf("ResolveItem with sku: %v", err)
	}
	if withSKU == first {
		t.Fatalf("sku-bearing row must not collapse into the null-sku row")
	}
}

func TestResolveItemCategoryFilledOnlyWhenEmpty(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	ctx := context.Background()

	sku := "HD-500"
	blank, err := r.items.Create(ctx, nil, &types.Item{Name: "Mop Bucket", SKU: &sku})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec := newTestReconciler(gdb, r)
	if _, err := rec.ResolveItem(ctx, &sku, "Mop Bucket", types.CategoryEquipment); err != nil {
		t.Fatalf("ResolveItem: %v", err)
	}
	got, err := r.items.GetByID(ctx, nil, blank.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Category != types.CategoryEquipment {
		t.Fatalf("empty category not filled, got %q", got.Category)
	}

	// A stored category survives a conflicting re-resolve.
	if _, err := newTestReconciler(gdb, r).ResolveItem(ctx, &sku, "Mop Bucket", types.CategorySupply); err != nil {
		t.Fatalf("ResolveItem second: %v", err)
	}
	got, err = r.items.GetByID(ctx, nil, blank.ID)
	if err != nil {
		t.Fatalf("GetByID second: %v", err)
	}
	if got.Category != types.CategoryEquipment {
		t.Fatalf("stored category overwritten to %q", got.Category)
	}
}

func TestLinkSiteItemIdempotentUpsert(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	rec := newTestReconciler(gdb, r)
	ctx := context.Background()

	siteID, err := rec.ResolveSite(ctx, "Depot 42")
	if err != nil {
		t.Fatalf("ResolveSite: %v", err)
	}
	sku := "HD-600"
	itemID, err := rec.ResolveItem(ctx, &sku, "Microfiber Cloth", types.CategorySupply)
	if err != nil {
		t.Fatalf("ResolveItem: %v", err)
	}

	par := 6
	if err := rec.LinkSiteItem(ctx, siteID, itemID, &SiteItemAttrs{Par: &par}); err != nil {
		t.Fatalf("LinkSiteItem: %v", err)
	}
	// Second call with no attrs must neither duplicate nor clear anything.
	if err := rec.LinkSiteItem(ctx, siteID, itemID, nil); err != nil {
		t.Fatalf("LinkSiteItem repeat: %v", err)
	}

	links, err := r.siteItems.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
	if links[0].Par == nil || *links[0].Par != 6 {
		t.Fatalf("par lost on repeat upsert: %v", links[0].Par)
	}

	// Attrs ride an explicit update even when the link pre-exists.
	img := "DEPOT 42/PRO_HD-600.webp"
	if err := rec.LinkSiteItem(ctx, siteID, itemID, &SiteItemAttrs{ImagePath: &img}); err != nil {
		t.Fatalf("LinkSiteItem with image: %v", err)
	}
	link, err := r.siteItems.Get(ctx, nil, siteID, itemID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if link.ImagePath == nil || *link.ImagePath != img {
		t.Fatalf("image path not applied: %v", link.ImagePath)
	}
	if link.Par == nil || *link.Par != 6 {
		t.Fatalf("par clobbered by image update: %v", link.Par)
	}
}

func TestLinkSiteItemRejectsNegativePar(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	rec := newTestReconciler(gdb, r)

	par := -1
	err := rec.LinkSiteItem(context.Background(), 1, 1, &SiteItemAttrs{Par: &par})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want a ValidationError", err)
	}
	if verr.Field != "par" {
		t.Fatalf("field %q, want par", verr.Field)
	}
}

func TestRemoveSiteItemOrphanCleanup(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	rec := newTestReconciler(gdb, r)
	ctx := context.Background()

	siteA, err := rec.ResolveSite(ctx, "Site A")
	if err != nil {
		t.Fatalf("ResolveSite: %v", err)
	}
	siteB, err := rec.ResolveSite(ctx, "Site B")
	if err != nil {
		t.Fatalf("ResolveSite: %v", err)
	}
	sku := "HD-700"
	itemID, err := rec.ResolveItem(ctx, &sku, "Dust Mop", types.CategorySupply)
	if err != nil {
		t.Fatalf("ResolveItem: %v", err)
	}
	if err := rec.LinkSiteItem(ctx, siteA, itemID, nil); err != nil {
		t.Fatalf("LinkSiteItem A: %v", err)
	}
	if err := rec.LinkSiteItem(ctx, siteB, itemID, nil); err != nil {
		t.Fatalf("LinkSiteItem B: %v", err)
	}

	// Still referenced by B, so the item survives.
	if err := rec.RemoveSiteItem(ctx, siteA, itemID); err != nil {
		t.Fatalf("RemoveSiteItem A: %v", err)
	}
	item, err := r.items.GetByID(ctx, nil, itemID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item == nil {
		t.Fatalf("item deleted while still linked")
	}

	// Last reference gone: the item goes with it.
	if err := rec.RemoveSiteItem(ctx, siteB, itemID); err != nil {
		t.Fatalf("RemoveSiteItem B: %v", err)
	}
	item, err = r.items.GetByID(ctx, nil, itemID)
	if err != nil {
		t.Fatalf("GetByID after cleanup: %v", err)
	}
	if item != nil {
		t.Fatalf("orphaned item not deleted")
	}
}

func TestLinkSiteEmployeeIdempotent(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	rec := newTestReconciler(gdb, r)
	ctx := context.Background()

	siteID, err := rec.ResolveSite(ctx, "Depot 42")
	if err != nil {
		t.Fatalf("ResolveSite: %v", err)
	}
	employeeID, err := rec.ResolveEmployee(ctx, "Dana Reyes")
	if err != nil {
		t.Fatalf("ResolveEmployee: %v", err)
	}
	if err := rec.LinkSiteEmployee(ctx, siteID, employeeID); err != nil {
		t.Fatalf("LinkSiteEmployee: %v", err)
	}
	if err := rec.LinkSiteEmployee(ctx, siteID, employeeID); err != nil {
		t.Fatalf("LinkSiteEmployee repeat: %v", err)
	}

	emps, err := r.employees.ListBySiteID(ctx, nil, siteID)
	if err != nil {
		t.Fatalf("ListBySiteID: %v", err)
	}
	if len(emps) != 1 {
		t.Fatalf("got %d linked employees, want 1", len(emps))
	}
}
