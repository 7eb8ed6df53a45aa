package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/types"
)

type SiteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, site *types.Site) (*types.Site, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Site, error)
	// GetByName matches the literal stored name. A nil result with a nil
	// error means no row exists; that is the create trigger, not a failure.
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Site, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Site, error)
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
}

type siteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSiteRepo(db *gorm.DB, baseLog *logger.Logger) SiteRepo {
	return &siteRepo{db: db, log: baseLog.With("repo", "SiteRepo")}
}

func (r *siteRepo) Create(ctx context.Context, tx *gorm.DB, site *types.Site) (*types.Site, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(site).Error; err != nil {
		return nil, err
	}
	return site, nil
}

func (r *siteRepo) GetByID(ctx context.Context, tx *gorm.DB, id int64) (*types.Site, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Site
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

func (r *siteRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Site, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Site
	if err := transaction.WithContext(ctx).
		Where("name = ?", name).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *siteRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Site, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Site
	if err := transaction.WithContext(ctx).
		Order("name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *siteRepo) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Site{}).Error; err != nil {
		return err
	}
	return nil
}
