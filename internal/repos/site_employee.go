package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/types"
)

type SiteEmployeeRepo interface {
	// UpsertIgnore inserts the link; a pre-existing link is a no-op.
	UpsertIgnore(ctx context.Context, tx *gorm.DB, siteID, employeeID int64) error
	Delete(ctx context.Context, tx *gorm.DB, siteID, employeeID int64) error
	DeleteBySiteID(ctx context.Context, tx *gorm.DB, siteID int64) error
}

type siteEmployeeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSiteEmployeeRepo(db *gorm.DB, baseLog *logger.Logger) SiteEmployeeRepo {
	return &siteEmployeeRepo{db: db, log: baseLog.With("repo", "SiteEmployeeRepo")}
}

func (r *siteEmployeeRepo) UpsertIgnore(ctx context.Context, tx *gorm.DB, siteID, employeeID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	link := types.SiteEmployee{SiteID: siteID, EmployeeID: employeeID}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "site_id"}, {Name: "employee_id"}},
			DoNothing: true,
		}).
		Create(&link).Error; err != nil {
		return err
	}
	return nil
}

func (r *siteEmployeeRepo) Delete(ctx context.Context, tx *gorm.DB, siteID, employeeID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("site_id = ? AND employee_id = ?", siteID, employeeID).
		Delete(&types.SiteEmployee{}).Error; err != nil {
		return err
	}
	return nil
}

func (r *siteEmployeeRepo) DeleteBySiteID(ctx context.Context, tx *gorm.DB, siteID int64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Where("site_id = ?", siteID).
		Delete(&types.SiteEmployee{}).Error; err != nil {
		return err
	}
	return nil
}
