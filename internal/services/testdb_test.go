package services

import (
	"fmt"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/skywardclean/ordering-backend/internal/db"
	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/repos"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// testDB opens an in-memory sqlite database scoped to the test. shared
// cache keeps the database alive across the pooled connections gorm opens.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

type testRepos struct {
	sites         repos.SiteRepo
	employees     repos.EmployeeRepo
	items         repos.ItemRepo
	siteEmployees repos.SiteEmployeeRepo
	siteItems     repos.SiteItemRepo
}

func newTestRepos(gdb *gorm.DB) testRepos {
	log := testLogger()
	return testRepos{
		sites:         repos.NewSiteRepo(gdb, log),
		employees:     repos.NewEmployeeRepo(gdb, log),
		items:         repos.NewItemRepo(gdb, log),
		siteEmployees: repos.NewSiteEmployeeRepo(gdb, log),
		siteItems:     repos.NewSiteItemRepo(gdb, log),
	}
}

func newTestReconciler(gdb *gorm.DB, r testRepos) *Reconciler {
	return NewReconciler(gdb, testLogger(), r.sites, r.employees, r.items, r.siteEmployees, r.siteItems)
}
