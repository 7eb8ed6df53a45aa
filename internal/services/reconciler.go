package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/repos"
	"github.com/skywardclean/ordering-backend/internal/types"
)

var nonAlnumRuns = regexp.MustCompile(`[^A-Z0-9]+`)

// NormalizeSiteName uppercases the input, collapses every run of
// non-alphanumeric characters to a single space, and trims. The result is
// only ever a lookup key; the literal name is what gets stored.
func NormalizeSiteName(raw string) string {
	return strings.TrimSpace(nonAlnumRuns.ReplaceAllString(strings.ToUpper(raw), " "))
}

type SiteItemAttrs struct {
	ImagePath *string
	Par       *int
}

// Reconciler maps loosely-structured external records (spreadsheet rows,
// drive listings, admin form submissions) onto canonical store rows without
// creating duplicates. The memo caches live for one run: one Reconciler per
// import batch or admin session.
//
// Every operation is a single idempotent step. Store errors propagate
// unchanged and nothing is retried; re-running the same input is safe.
type Reconciler struct {
	db  *gorm.DB
	log *logger.Logger

	sites         repos.SiteRepo
	employees     repos.EmployeeRepo
	items         repos.ItemRepo
	siteEmployees repos.SiteEmployeeRepo
	siteItems     repos.SiteItemRepo

	siteIDs     map[string]int64
	employeeIDs map[string]int64
	itemIDs     map[itemCacheKey]int64
}

type itemCacheKey struct {
	sku    string
	hasSKU bool
	name   string
}

func NewReconciler(
	db *gorm.DB,
	baseLog *logger.Logger,
	siteRepo repos.SiteRepo,
	employeeRepo repos.EmployeeRepo,
	itemRepo repos.ItemRepo,
	siteEmployeeRepo repos.SiteEmployeeRepo,
	siteItemRepo repos.SiteItemRepo,
) *Reconciler {
	return &Reconciler{
		db:            db,
		log:           baseLog.With("service", "Reconciler"),
		sites:         siteRepo,
		employees:     employeeRepo,
		items:         itemRepo,
		siteEmployees: siteEmployeeRepo,
		siteItems:     siteItemRepo,
		siteIDs:       map[string]int64{},
		employeeIDs:   map[string]int64{},
		itemIDs:       map[itemCacheKey]int64{},
	}
}

// ResolveSite returns the id of the site the raw name refers to, creating a
// row with the literal name when none exists. Lookup against the store is by
// literal name; the cache is keyed by the normalized form, so two spellings
// that normalize alike resolve to one id within a run even though only an
// exact match reuses a persisted row.
func (r *Reconciler) ResolveSite(ctx context.Context, name string) (int64, error) {
	key := NormalizeSiteName(name)
	if id, ok := r.siteIDs[key]; ok {
		return id, nil
	}
	found, err := r.sites.GetByName(ctx, nil, name)
	if err != nil {
		return 0, err
	}
	if found != nil {
		r.siteIDs[key] = found.ID
		return found.ID, nil
	}
	created, err := r.sites.Create(ctx, nil, &types.Site{Name: name})
	if err != nil {
		return 0, err
	}
	r.log.Debug("created site", "site", name, "id", created.ID)
	r.siteIDs[key] = created.ID
	return created.ID, nil
}

// ResolveEmployee matches on the literal full name; the first stored row
// wins when several exist. Spelling variants of the same person create
// distinct rows on purpose.
func (r *Reconciler) ResolveEmployee(ctx context.Context, fullName string) (int64, error) {
	if id, ok := r.employeeIDs[fullName]; ok {
		return id, nil
	}
	found, err := r.employees.GetByFullName(ctx, nil, fullName)
	if err != nil {
		return 0, err
	}
	if found != nil {
		r.employeeIDs[fullName] = found.ID
		return found.ID, nil
	}
	created, err := r.employees.Create(ctx, nil, &types.Employee{FullName: fullName})
	if err != nil {
		return 0, err
	}
	r.log.Debug("created employee", "full_name", fullName, "id", created.ID)
	r.employeeIDs[fullName] = created.ID
	return created.ID, nil
}

// ResolveItem matches on the (sku, name) pair when sku is non-nil, or on
// name alone among null-sku rows. When no row matches a non-nil sku but a
// row's name equals the sku value itself (the historical inversion where sku
// values were written into the name column), that row is corrected in place
// instead of creating a duplicate. category, when non-empty, is
// stored only if the matched row has none; a stored category is never
// overwritten here.
func (r *Reconciler) ResolveItem(ctx context.Context, sku *string, name string, category types.Category) (int64, error) {
	key := itemCacheKey{name: name}
	if sku != nil {
		key.sku = *sku
		key.hasSKU = true
	}
	if id, ok := r.itemIDs[key]; ok {
		return id, nil
	}

	if sku != nil {
		found, err := r.items.GetBySKUAndName(ctx, nil, *sku, name)
		if err != nil {
			return 0, err
		}
		if found != nil {
			if category != "" && found.Category == "" {
				if err := r.items.UpdateCategoryIfEmpty(ctx, nil, found.ID, category); err != nil {
					return 0, err
				}
			}
			r.itemIDs[key] = found.ID
			return found.ID, nil
		}

		mis, err := r.items.GetByNameEqualsSKU(ctx, nil, *sku)
		if err != nil {
			return 0, err
		}
		if mis != nil {
			if err := r.items.UpdateSKUAndName(ctx, nil, mis.ID, *sku, name); err != nil {
				return 0, err
			}
			r.log.Info("corrected mis-seeded item", "id", mis.ID, "sku", *sku, "name", name)
			r.itemIDs[key] = mis.ID
			return mis.ID, nil
		}
	} else {
		found, err := r.items.GetNullSKUByName(ctx, nil, name)
		if err != nil {
			return 0, err
		}
		if found != nil {
			r.itemIDs[key] = found.ID
			return found.ID, nil
		}
	}

	created, err := r.items.Create(ctx, nil, &types.Item{Name: name, SKU: sku, Category: category})
	if err != nil {
		return 0, err
	}
	r.log.Debug("created item", "name", name, "id", created.ID)
	r.itemIDs[key] = created.ID
	return created.ID, nil
}

// LinkSiteEmployee upserts the link; duplicate calls are no-ops.
func (r *Reconciler) LinkSiteEmployee(ctx context.Context, siteID, employeeID int64) error {
	return r.siteEmployees.UpsertIgnore(ctx, nil, siteID, employeeID)
}

// LinkSiteItem upserts the link with conflict policy "ignore" for the
// link's existence. Attribute values never ride along on the upsert: when
// attrs is supplied they are applied by explicit updates, whether the link
// pre-existed or not.
func (r *Reconciler) LinkSiteItem(ctx context.Context, siteID, itemID int64, attrs *SiteItemAttrs) error {
	if attrs != nil && attrs.Par != nil && *attrs.Par < 0 {
		return &ValidationError{Field: "par", Message: fmt.Sprintf("par must be >= 0, got %d", *attrs.Par)}
	}
	if err := r.siteItems.UpsertIgnore(ctx, nil, siteID, itemID); err != nil {
		return err
	}
	if attrs == nil {
		return nil
	}
	if attrs.ImagePath != nil {
		if err := r.siteItems.UpdateImagePath(ctx, nil, siteID, itemID, *attrs.ImagePath); err != nil {
			return err
		}
	}
	if attrs.Par != nil {
		if err := r.siteItems.UpdatePar(ctx, nil, siteID, itemID, *attrs.Par); err != nil {
			return err
		}
	}
	return nil
}

// RemoveSiteItem deletes the link, then deletes the item itself if no other
// site still references it. The check and the delete are separate round
// trips with no transaction; a link inserted in between can lose its item.
// Accepted as best-effort cleanup given the human-driven write rate.
func (r *Reconciler) RemoveSiteItem(ctx context.Context, siteID, itemID int64) error {
	if err := r.siteItems.Delete(ctx, nil, siteID, itemID); err != nil {
		return err
	}
	remaining, err := r.siteItems.CountByItemID(ctx, nil, itemID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := r.items.Delete(ctx, nil, itemID); err != nil {
			return err
		}
		r.log.Debug("deleted orphaned item", "item_id", itemID)
	}
	return nil
}
