package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/types"
)

type SiteItemRepo interface {
	// UpsertIgnore inserts the link; a pre-existing link keeps its
	// image_path and par untouched. Attribute refreshes go through
	// UpdateImagePath / UpdatePar explicitly.
	UpsertIgnore(ctx context.Context, tx *gorm.DB, siteID, itemID int64) error
	Get(ctx context.Context, tx *gorm.DB, siteID, itemID int64) (*types.SiteItem, error)
	UpdateImagePath(ctx context.Context, tx *gorm.DB, siteID, itemID int64, imagePath string) error
	UpdatePar(ctx context.Context, tx *gorm.DB, siteID, itemID int64, par int) error
	Delete(ctx context.Context, tx *gorm.DB, siteID, itemID int64) error
	DeleteBySiteID(ctx context.Context, tx *gorm.DB, siteID int64) error
	CountByItemID(ctx context.Context, tx *gorm.DB, itemID int64) (int64, error)
	ListBySiteID(ctx context.Context, tx *gorm.DB, siteID int64) ([]*types.SiteItem, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.SiteItem, error)
}

type siteItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSiteItemRepo(db *gorm.DB, baseLog *logger.Logger) SiteItemRepo {
	return &siteItemRepo{db: db, log: baseLog.With("repo", "SiteItemRepo")}
}

func (r *siteItemRepo) UpsertIgnore(ctx context.Context, tx *gorm.DB, siteID, itemID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	link := types.SiteItem{SiteID: siteID, ItemID: itemID}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "site_id"}, {Name: "item_id"}},
			DoNothing: true,
		}).
		Create(&link).Error; err != nil {
		return err
	}
	return nil
}

func (r *siteItemRepo) Get(ctx context.Context, tx *gorm.DB, siteID, itemID int64) (*types.SiteItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SiteItem
	if err := transaction.WithContext(ctx).
		Where("site_id = ? AND item_id = ?", siteID, itemID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *siteItemRepo) UpdateImagePath(ctx context.Context, tx *gorm.DB, siteID, itemID int64, imagePath string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.SiteItem{}).
		Where("site_id = ? AND item_id = ?", siteID, itemID).
		Update("image_path", imagePath).Error; err != nil {
		return err
	}
	return nil
}

func (r *siteItemRepo) UpdatePar(ctx context.Context, tx *gorm.DB, siteID, itemID int64, par int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.SiteItem{}).
		Where("site_id = ? AND item_id = ?", siteID, itemID).
		Update("par", par).Error; err != nil {
		return err
	}
	return nil
}

func (r *siteItemRepo) Delete(ctx context.Context, tx *gorm.DB, siteID, itemID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("site_id = ? AND item_id = ?", siteID, itemID).
		Delete(&types.SiteItem{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *siteItemRepo) DeleteBySiteID(ctx context.Context, tx *gorm.DB, siteID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("site_id = ?", siteID).
		Delete(&types.SiteItem{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *siteItemRepo) CountByItemID(ctx context.Context, tx *gorm.DB, itemID int64) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SiteItem{}).
		Where("item_id = ?", itemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *siteItemRepo) ListBySiteID(ctx context.Context, tx *gorm.DB, siteID int64) ([]*types.SiteItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SiteItem
	if err := transaction.WithContext(ctx).
		Where("site_id = ?", siteID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *siteItemRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.SiteItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SiteItem
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
