package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/repos"
	"github.com/skywardclean/ordering-backend/internal/types"
)

type ImageUpload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

type NewSupply struct {
	Name     string
	SKU      string
	Category types.Category
	Image    *ImageUpload
}

type CreateSiteRequest struct {
	Name      string
	Employees []string
	Supplies  []NewSupply
}

type SiteItemView struct {
	Item      *types.Item `json:"item"`
	ImagePath *string     `json:"image_path"`
	Par       *int        `json:"par"`
}

type SiteDetail struct {
	Site      *types.Site       `json:"site"`
	Employees []*types.Employee `json:"employees"`
	Items     []SiteItemView    `json:"items"`
}

// SiteService backs the admin UI. Each mutating call runs through a fresh
// Reconciler so the memo caches never outlive one admin action.
type SiteService struct {
	db     *gorm.DB
	log    *logger.Logger
	bucket BucketService

	sites         repos.SiteRepo
	employees     repos.EmployeeRepo
	items         repos.ItemRepo
	siteEmployees repos.SiteEmployeeRepo
	siteItems     repos.SiteItemRepo
}

func NewSiteService(
	db *gorm.DB,
	baseLog *logger.Logger,
	bucket BucketService,
	siteRepo repos.SiteRepo,
	employeeRepo repos.EmployeeRepo,
	itemRepo repos.ItemRepo,
	siteEmployeeRepo repos.SiteEmployeeRepo,
	siteItemRepo repos.SiteItemRepo,
) *SiteService {
	return &SiteService{
		db:            db,
		log:           baseLog.With("service", "SiteService"),
		bucket:        bucket,
		sites:         siteRepo,
		employees:     employeeRepo,
		items:         itemRepo,
		siteEmployees: siteEmployeeRepo,
		siteItems:     siteItemRepo,
	}
}

func (s *SiteService) reconciler() *Reconciler {
	return NewReconciler(s.db, s.log, s.sites, s.employees, s.items, s.siteEmployees, s.siteItems)
}

func (s *SiteService) List(ctx context.Context) ([]*types.Site, error) {
	return s.sites.List(ctx, nil)
}

func (s *SiteService) Detail(ctx context.Context, siteID int64) (*SiteDetail, error) {
	site, err := s.sites.GetByID(ctx, nil, siteID)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, &ValidationError{Field: "site_id", Message: fmt.Sprintf("site %d not found", siteID)}
	}
	employees, err := s.employees.ListBySiteID(ctx, nil, siteID)
	if err != nil {
		return nil, err
	}
	links, err := s.siteItems.ListBySiteID(ctx, nil, siteID)
	if err != nil {
		return nil, err
	}
	items := make([]SiteItemView, 0, len(links))
	for _, link := range links {
		item, err := s.items.GetByID(ctx, nil, link.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		items = append(items, SiteItemView{Item: item, ImagePath: link.ImagePath, Par: link.Par})
	}
	return &SiteDetail{Site: site, Employees: employees, Items: items}, nil
}

// Create reconciles a whole admin "add site" form: the site row, its
// employees, and its supplies with optional images. Item categories left
// blank on the form fall back to the keyword heuristic, but a category
// already stored on a matched item is kept.
func (s *SiteService) Create(ctx context.Context, req CreateSiteRequest) (int64, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, &ValidationError{Field: "name", Message: "site name is required"}
	}
	rec := s.reconciler()
	siteID, err := rec.ResolveSite(ctx, name)
	if err != nil {
		return 0, err
	}

	for _, raw := range req.Employees {
		fullName := strings.TrimSpace(raw)
		if fullName == "" {
			continue
		}
		employeeID, err := rec.ResolveEmployee(ctx, fullName)
		if err != nil {
			return 0, err
		}
		if err := rec.LinkSiteEmployee(ctx, siteID, employeeID); err != nil {
			return 0, err
		}
	}

	for _, supply := range req.Supplies {
		sku := strings.TrimSpace(supply.SKU)
		itemName := strings.TrimSpace(supply.Name)
		if sku == "" || itemName == "" {
			continue
		}
		category := supply.Category
		if category == "" {
			category = Categorize(itemName, sku)
		}
		itemID, err := rec.ResolveItem(ctx, &sku, itemName, category)
		if err != nil {
			return 0, err
		}
		var attrs *SiteItemAttrs
		if supply.Image != nil {
			imagePath, err := s.uploadItemImage(ctx, sku, supply.Image)
			if err != nil {
				return 0, err
			}
			attrs = &SiteItemAttrs{ImagePath: &imagePath}
		}
		if err := rec.LinkSiteItem(ctx, siteID, itemID, attrs); err != nil {
			return 0, err
		}
	}
	s.log.Info("site created", "site_id", siteID, "name", name)
	return siteID, nil
}

// Delete removes the site and its links. Items linked only to this site
// stay behind; orphan cleanup only runs on per-item removal.
func (s *SiteService) Delete(ctx context.Context, siteID int64) error {
	if err := s.siteEmployees.DeleteBySiteID(ctx, nil, siteID); err != nil {
		return err
	}
	if err := s.siteItems.DeleteBySiteID(ctx, nil, siteID); err != nil {
		return err
	}
	return s.sites.Delete(ctx, nil, siteID)
}

func (s *SiteService) AddEmployee(ctx context.Context, siteID int64, fullName string) (int64, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return 0, &ValidationError{Field: "full_name", Message: "employee name is required"}
	}
	rec := s.reconciler()
	employeeID, err := rec.ResolveEmployee(ctx, fullName)
	if err != nil {
		return 0, err
	}
	if err := rec.LinkSiteEmployee(ctx, siteID, employeeID); err != nil {
		return 0, err
	}
	return employeeID, nil
}

func (s *SiteService) RemoveEmployee(ctx context.Context, siteID, employeeID int64) error {
	return s.siteEmployees.Delete(ctx, nil, siteID, employeeID)
}

func (s *SiteService) AddItem(ctx context.Context, siteID int64, sku, name string, category types.Category) (int64, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	if sku == "" || name == "" {
		return 0, &ValidationError{Field: "item", Message: "sku and name are required"}
	}
	if category == "" {
		category = Categorize(name, sku)
	}
	rec := s.reconciler()
	itemID, err := rec.ResolveItem(ctx, &sku, name, category)
	if err != nil {
		return 0, err
	}
	if err := rec.LinkSiteItem(ctx, siteID, itemID, nil); err != nil {
		return 0, err
	}
	return itemID, nil
}

func (s *SiteService) RemoveItem(ctx context.Context, siteID, itemID int64) error {
	return s.reconciler().RemoveSiteItem(ctx, siteID, itemID)
}

func (s *SiteService) SetPar(ctx context.Context, siteID, itemID int64, par int) error {
	if par < 0 {
		return &ValidationError{Field: "par", Message: fmt.Sprintf("par must be >= 0, got %d", par)}
	}
	return s.siteItems.UpdatePar(ctx, nil, siteID, itemID, par)
}

func (s *SiteService) SetImage(ctx context.Context, siteID, itemID int64, sku string, upload *ImageUpload) error {
	imagePath, err := s.uploadItemImage(ctx, sku, upload)
	if err != nil {
		return err
	}
	return s.siteItems.UpdateImagePath(ctx, nil, siteID, itemID, imagePath)
}

// SetItemCategory is the explicit admin edit, the only path allowed to
// overwrite a stored category.
func (s *SiteService) SetItemCategory(ctx context.Context, itemID int64, category types.Category) error {
	if !category.Valid() {
		return &ValidationError{Field: "category", Message: fmt.Sprintf("invalid category %q", category)}
	}
	return s.items.UpdateCategory(ctx, nil, itemID, category)
}

func (s *SiteService) uploadItemImage(ctx context.Context, sku string, upload *ImageUpload) (string, error) {
	if s.bucket == nil {
		return "", fmt.Errorf("image storage not configured")
	}
	ext := strings.ToLower(path.Ext(upload.Filename))
	key := fmt.Sprintf("uploads/%s_%d%s", sku, time.Now().UnixMilli(), ext)
	if err := s.bucket.UploadFile(ctx, key, upload.ContentType, upload.Data); err != nil {
		return "", fmt.Errorf("Failed to upload image for %s: %w", sku, err)
	}
	return key, nil
}
