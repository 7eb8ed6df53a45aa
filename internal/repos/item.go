package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/types"
)

type ItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, item *types.Item) (*types.Item, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Item, error)
	GetBySKUAndName(ctx context.Context, tx *gorm.DB, sku, name string) (*types.Item, error)
	// GetByNameEqualsSKU finds rows affected by the historical inversion bug
	// where the sku value was written into the name column.
	GetByNameEqualsSKU(ctx context.Context, tx *gorm.DB, sku string) (*types.Item, error)
	GetNullSKUByName(ctx context.Context, tx *gorm.DB, name string) (*types.Item, error)
	UpdateSKUAndName(ctx context.Context, tx *gorm.DB, id int64, sku, name string) error
	UpdateCategoryIfEmpty(ctx context.Context, tx *gorm.DB, id int64, category types.Category) error
	UpdateCategory(ctx context.Context, tx *gorm.DB, id int64, category types.Category) error
	ListBySiteID(ctx context.Context, tx *gorm.DB, siteID int64) ([]*types.Item, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Item, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	return &itemRepo{db: db, log: baseLog.With("repo", "ItemRepo")}
}

func (r *itemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.Item) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *itemRepo) GetBySKUAndName(ctx context.Context, tx *gorm.DB, sku, name string) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Where("sku = ? AND name = ?", sku, name).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *itemRepo) GetByNameEqualsSKU(ctx context.Context, tx *gorm.DB, sku string) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Where("name = ?", sku).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *itemRepo) GetNullSKUByName(ctx context.Context, tx *gorm.DB, name string) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Where("sku IS NULL AND name = ?", name).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *itemRepo) UpdateSKUAndName(ctx context.Context, tx *gorm.DB, id int64, sku, name string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"sku": sku, "name": name}).Error; err != nil {
		return err
	}
	return nil
}

func (r *itemRepo) UpdateCategoryIfEmpty(ctx context.Context, tx *gorm.DB, id int64, category types.Category) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("id = ? AND (category IS NULL OR category = '')", id).
		Update("category", category).Error; err != nil {
		return err
	}
	return nil
}

func (r *itemRepo) UpdateCategory(ctx context.Context, tx *gorm.DB, id int64, category types.Category) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("id = ?", id).
		Update("category", category).Error; err != nil {
		return err
	}
	return nil
}

func (r *itemRepo) ListBySiteID(ctx context.Context, tx *gorm.DB, siteID int64) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Joins("JOIN app_site_items si ON si.item_id = app_items.id").
		Where("si.site_id = ?", siteID).
		Order("app_items.name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Item
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *itemRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Item{}).Error; err != nil {
		return err
	}
	return nil
}
