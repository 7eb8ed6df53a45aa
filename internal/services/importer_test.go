package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newTestImportService(gdb *gorm.DB, r testRepos) *ImportService {
	return NewImportService(gdb, testLogger(), r.sites, r.employees, r.items, r.siteEmployees, r.siteItems)
}

func TestParseCSV(t *testing.T) {
	svc := newTestImportService(nil, testRepos{})
	input := strings.Join([]string{
		"Site Location,Item SKU,Item Name,Type",
		"Depot 42,HD-1,Glass Cleaner,Consumable",
		",,,",
		"Depot 42,HD-2,Mop Head,supply",
	}, "\n")

	rows, err := svc.ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (header and empty row skipped)", len(rows))
	}
	if rows[0].Type != "consumable" {
		t.Fatalf("type not lowercased: %q", rows[0].Type)
	}
	if rows[0].RowNumber != 2 || rows[1].RowNumber != 4 {
		t.Fatalf("row numbers %d,%d, want spreadsheet positions 2,4", rows[0].RowNumber, rows[1].RowNumber)
	}
	if rows[1].ItemSKU != "HD-2" || rows[1].ItemName != "Mop Head" {
		t.Fatalf("columns misread: %+v", rows[1])
	}
}

func TestParseWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	lines := [][]interface{}{
		{"Site Location", "Item SKU", "Item Name", "Type"},
		{"Depot 42", "HD-1", "Glass Cleaner", "Consumable"},
		{"Depot 42", "HD-2", "Wet Floor Sign", "Supply"},
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	svc := newTestImportService(nil, testRepos{})
	rows, err := svc.ParseWorkbook(&buf)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].SiteLocation != "Depot 42" || rows[0].Type != "consumable" {
		t.Fatalf("first row misread: %+v", rows[0])
	}
}

func TestValidate(t *testing.T) {
	svc := newTestImportService(nil, testRepos{})

	rows := []ImportRow{
		{SiteLocation: "Depot 42", ItemSKU: "HD-1", ItemName: "Glass Cleaner", Type: "consumable", RowNumber: 2},
		{SiteLocation: "", ItemSKU: "", ItemName: "Mop Head", Type: "gadget", RowNumber: 3},
	}
	errs := svc.Validate(rows, "")
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), errs)
	}
	for _, e := range errs {
		if e.Row != 3 {
			t.Fatalf("error attributed to row %d, want 3", e.Row)
		}
	}

	t.Run("site_gate_case_insensitive", func(t *testing.T) {
		rows := []ImportRow{
			{SiteLocation: "DEPOT 42", ItemSKU: "HD-1", ItemName: "Glass Cleaner", Type: "supply", RowNumber: 2},
			{SiteLocation: "Oak Mall", ItemSKU: "HD-2", ItemName: "Mop Head", Type: "supply", RowNumber: 3},
		}
		errs := svc.Validate(rows, "Depot 42")
		if len(errs) != 1 {
			t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
		}
		if errs[0].Row != 3 || errs[0].Field != "Site Location" {
			t.Fatalf("wrong error: %+v", errs[0])
		}
	})
}

func TestImportDeduplicates(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	svc := newTestImportService(gdb, r)
	ctx := context.Background()

	rows := []ImportRow{
		{SiteLocation: "Depot 42", ItemSKU: "HD-1", ItemName: "Glass Cleaner", Type: "consumable", RowNumber: 2},
		{SiteLocation: "depot -- 42", ItemSKU: "HD-1", ItemName: "Glass Cleaner", Type: "consumable", RowNumber: 3},
		{SiteLocation: "Depot 42", ItemSKU: "HD-2", ItemName: "Mop Head", Type: "bogus", RowNumber: 4},
	}
	stats, err := svc.Import(ctx, rows)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.Rows != 2 || stats.Sites != 1 || stats.Items != 1 || stats.Skipped != 1 {
		t.Fatalf("stats %+v, want 2 rows, 1 site, 1 item, 1 skipped", stats)
	}

	sites, err := r.sites.List(ctx, nil)
	if err != nil {
		t.Fatalf("List sites: %v", err)
	}
	if len(sites) != 1 {
		t.Fatalf("got %d sites, want 1", len(sites))
	}
	items, err := r.items.List(ctx, nil)
	if err != nil {
		t.Fatalf("List items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	links, err := r.siteItems.List(ctx, nil)
	if err != nil {
		t.Fatalf("List links: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
}

func TestImportRerunIsNoOp(t *testing.T) {
	gdb := testDB(t)
	r := newTestRepos(gdb)
	svc := newTestImportService(gdb, r)
	ctx := context.Background()

	rows := []ImportRow{
		{SiteLocation: "Depot 42", ItemSKU: "HD-1", ItemName: "Glass Cleaner", Type: "consumable", RowNumber: 2},
		{SiteLocation: "Depot 42", ItemSKU: "HD-2", ItemName: "Mop Head", Type: "supply", RowNumber: 3},
	}
	if _, err := svc.Import(ctx, rows); err != nil {
		t.Fatalf("first Import: %v", err)
	}
	if _, err := svc.Import(ctx, rows); err != nil {
		t.Fatalf("second Import: %v", err)
	}

	items, err := r.items.List(ctx, nil)
	if err != nil {
		t.Fatalf("List items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items after rerun, want 2", len(items))
	}
	links, err := r.siteItems.List(ctx, nil)
	if err != nil {
		t.Fatalf("List links: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("got %d links after rerun, want 2", len(links))
	}
}
