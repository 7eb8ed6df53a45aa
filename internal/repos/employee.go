package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/types"
)

type EmployeeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error)
	// GetByFullName matches the literal full name; when several sites share
	// the same person the first row wins (store order).
	GetByFullName(ctx context.Context, tx *gorm.DB, fullName string) (*types.Employee, error)
	ListBySiteID(ctx context.Context, tx *gorm.DB, siteID int64) ([]*types.Employee, error)
}

type employeeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmployeeRepo(db *gorm.DB, baseLog *logger.Logger) EmployeeRepo {
	return &employeeRepo{db: db, log: baseLog.With("repo", "EmployeeRepo")}
}

func (r *employeeRepo) Create(ctx context.Context, tx *gorm.DB, employee *types.Employee) (*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(employee).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

func (r *employeeRepo) GetByFullName(ctx context.Context, tx *gorm.DB, fullName string) (*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Employee
	if err := transaction.WithContext(ctx).
		Where("full_name = ?", fullName).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *employeeRepo) ListBySiteID(ctx context.Context, tx *gorm.DB, siteID int64) ([]*types.Employee, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Employee
	if err := transaction.WithContext(ctx).
		Joins("JOIN app_site_employees se ON se.employee_id = app_employees.id").
		Where("se.site_id = ?", siteID).
		Order("app_employees.full_name asc").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
