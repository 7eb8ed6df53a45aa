package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/repos"
	"github.com/skywardclean/ordering-backend/internal/types"
)

// ImportRow is one parsed spreadsheet line: site location, item SKU, item
// name, type. Row 1 of the sheet is a header and never parsed.
type ImportRow struct {
	SiteLocation string
	ItemSKU      string
	ItemName     string
	Type         string
	RowNumber    int
}

type ImportStats struct {
	Rows      int `json:"rows"`
	Sites     int `json:"sites"`
	Items     int `json:"items"`
	SiteLinks int `json:"site_links"`
	Skipped   int `json:"skipped"`
}

var validImportTypes = map[string]types.Category{
	"consumable": types.CategoryConsumables,
	"supply":     types.CategorySupply,
	"equipment":  types.CategoryEquipment,
}

type ImportService struct {
	db  *gorm.DB
	log *logger.Logger

	sites         repos.SiteRepo
	employees     repos.EmployeeRepo
	items         repos.ItemRepo
	siteEmployees repos.SiteEmployeeRepo
	siteItems     repos.SiteItemRepo
}

func NewImportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	siteRepo repos.SiteRepo,
	employeeRepo repos.EmployeeRepo,
	itemRepo repos.ItemRepo,
	siteEmployeeRepo repos.SiteEmployeeRepo,
	siteItemRepo repos.SiteItemRepo,
) *ImportService {
	return &ImportService{
		db:            db,
		log:           baseLog.With("service", "ImportService"),
		sites:         siteRepo,
		employees:     employeeRepo,
		items:         itemRepo,
		siteEmployees: siteEmployeeRepo,
		siteItems:     siteItemRepo,
	}
}

// ParseWorkbook reads the first sheet of an xlsx workbook into import rows,
// skipping the header row and fully empty rows. RowNumber matches what the
// user sees in their spreadsheet editor.
func (s *ImportService) ParseWorkbook(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("Failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("Failed to read sheet %q: %w", sheets[0], err)
	}
	return rowsFromCells(rows), nil
}

// ParseCSV is the csv counterpart of ParseWorkbook, same column contract.
func (s *ImportService) ParseCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("Failed to parse csv: %w", err)
	}
	return rowsFromCells(records), nil
}

func rowsFromCells(rows [][]string) []ImportRow {
	var parsed []ImportRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		parsed = append(parsed, ImportRow{
			SiteLocation: strings.TrimSpace(cell(row, 0)),
			ItemSKU:      strings.TrimSpace(cell(row, 1)),
			ItemName:     strings.TrimSpace(cell(row, 2)),
			Type:         strings.ToLower(strings.TrimSpace(cell(row, 3))),
			RowNumber:    i + 1,
		})
	}
	return parsed
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// Validate reports per-row problems without touching the store. When
// expectedSite is non-empty, rows naming a different site are rejected
// (case-insensitive comparison, matching the admin UI's gate when importing
// into an existing site).
func (s *ImportService) Validate(rows []ImportRow, expectedSite string) []*ValidationError {
	var errs []*ValidationError
	for _, row := range rows {
		if row.SiteLocation == "" {
			errs = append(errs, &ValidationError{Row: row.RowNumber, Field: "Site Location", Message: "site location is required"})
		}
		if row.ItemSKU == "" {
			errs = append(errs, &ValidationError{Row: row.RowNumber, Field: "Item SKU", Message: "item SKU is required"})
		}
		if row.ItemName == "" {
			errs = append(errs, &ValidationError{Row: row.RowNumber, Field: "Item Name", Message: "item name is required"})
		}
		if row.Type == "" {
			errs = append(errs, &ValidationError{Row: row.RowNumber, Field: "Type", Message: "type is required"})
		} else if _, ok := validImportTypes[row.Type]; !ok {
			errs = append(errs, &ValidationError{Row: row.RowNumber, Field: "Type", Message: "type must be one of: consumable, supply, equipment"})
		}
		if expectedSite != "" && row.SiteLocation != "" && !strings.EqualFold(row.SiteLocation, expectedSite) {
			errs = append(errs, &ValidationError{
				Row:     row.RowNumber,
				Field:   "Site Location",
				Message: fmt.Sprintf("site location %q doesn't match current site %q", row.SiteLocation, expectedSite),
			})
		}
	}
	return errs
}

// Import reconciles rows one at a time, in input order. A store error aborts
// the batch; rows already reconciled stay committed (at-least-once), and
// re-running the same input is a no-op. A fresh Reconciler scopes the memo
// caches to this batch.
func (s *ImportService) Import(ctx context.Context, rows []ImportRow) (*ImportStats, error) {
	rec := NewReconciler(s.db, s.log, s.sites, s.employees, s.items, s.siteEmployees, s.siteItems)
	stats := &ImportStats{}
	seenSites := map[int64]bool{}
	seenItems := map[int64]bool{}

	for _, row := range rows {
		category, ok := validImportTypes[row.Type]
		if !ok {
			stats.Skipped++
			continue
		}
		siteID, err := rec.ResolveSite(ctx, row.SiteLocation)
		if err != nil {
			return stats, fmt.Errorf("row %d: resolve site: %w", row.RowNumber, err)
		}
		sku := row.ItemSKU
		itemID, err := rec.ResolveItem(ctx, &sku, row.ItemName, category)
		if err != nil {
			return stats, fmt.Errorf("row %d: resolve item: %w", row.RowNumber, err)
		}
		if err := rec.LinkSiteItem(ctx, siteID, itemID, nil); err != nil {
			return stats, fmt.Errorf("row %d: link site item: %w", row.RowNumber, err)
		}
		stats.Rows++
		if !seenSites[siteID] {
			seenSites[siteID] = true
			stats.Sites++
		}
		if !seenItems[itemID] {
			seenItems[itemID] = true
			stats.Items++
		}
		stats.SiteLinks++
	}
	s.log.Info("import finished", "rows", stats.Rows, "sites", stats.Sites, "items", stats.Items, "skipped", stats.Skipped)
	return stats, nil
}
