package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/repos"
	"github.com/skywardclean/ordering-backend/internal/types"
)

type ReportStats struct {
	Links         int `json:"links"`
	MissingImages int `json:"missing_images"`
}

// ReportService builds the missing-images workbook the ops team uses to
// chase down photos: one row per site-item link, flagged when no image is
// attached.
type ReportService struct {
	log       *logger.Logger
	sites     repos.SiteRepo
	items     repos.ItemRepo
	siteItems repos.SiteItemRepo
}

func NewReportService(baseLog *logger.Logger, siteRepo repos.SiteRepo, itemRepo repos.ItemRepo, siteItemRepo repos.SiteItemRepo) *ReportService {
	return &ReportService{
		log:       baseLog.With("service", "ReportService"),
		sites:     siteRepo,
		items:     itemRepo,
		siteItems: siteItemRepo,
	}
}

func (s *ReportService) BuildMissingImagesReport(ctx context.Context) ([]byte, *ReportStats, error) {
	links, err := s.siteItems.List(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	sites, err := s.sites.List(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	siteNames := map[int64]string{}
	for _, site := range sites {
		siteNames[site.ID] = site.Name
	}
	items, err := s.items.List(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	itemByID := map[int64]*types.Item{}
	for _, item := range items {
		itemByID[item.ID] = item
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Site", "Item", "SKU", "Category", "Image Path", "Missing"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, nil, err
	}

	stats := &ReportStats{}
	rowNum := 2
	for _, link := range links {
		item := itemByID[link.ItemID]
		if item == nil {
			continue
		}
		stats.Links++
		imagePath := ""
		missing := "yes"
		if link.ImagePath != nil && *link.ImagePath != "" {
			imagePath = *link.ImagePath
			missing = ""
		} else {
			stats.MissingImages++
		}
		sku := ""
		if item.SKU != nil {
			sku = *item.SKU
		}
		row := []interface{}{siteNames[link.SiteID], item.Name, sku, string(item.Category), imagePath, missing}
		cell := fmt.Sprintf("A%d", rowNum)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, nil, err
		}
		rowNum++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, nil, fmt.Errorf("Failed to write report workbook: %w", err)
	}
	s.log.Info("missing images report built", "links", stats.Links, "missing", stats.MissingImages)
	return buf.Bytes(), stats, nil
}
