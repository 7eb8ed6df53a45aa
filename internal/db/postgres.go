package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/types"
	"github.com/skywardclean/ordering-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "ordering", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrate(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	if err := s.db.Exec(`
		ALTER TABLE "app_site_employees"
		ADD CONSTRAINT "fk_site_employees_site_id"
		FOREIGN KEY ("site_id")
		REFERENCES "app_sites"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("Failed to add fk_site_employees_site_id: %w", err)
	}
	if err := s.db.Exec(`
		ALTER TABLE "app_site_items"
		ADD CONSTRAINT "fk_site_items_site_id"
		FOREIGN KEY ("site_id")
		REFERENCES "app_sites"("id")
		ON DELETE CASCADE
	`).Error; err != nil {
		return fmt.Errorf("Failed to add fk_site_items_site_id: %w", err)
	}
	return nil
}

// AutoMigrate is shared with the sqlite-backed tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Site{},
		&types.Employee{},
		&types.Item{},
		&types.SiteEmployee{},
		&types.SiteItem{},
	)
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
