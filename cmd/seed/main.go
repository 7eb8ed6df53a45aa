package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/skywardclean/ordering-backend/internal/db"
	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/repos"
	"github.com/skywardclean/ordering-backend/internal/services"
)

type siteEmployeesEntry struct {
	Site      string   `json:"site"`
	Employees []string `json:"employees"`
}

type supplyRow struct {
	ItemNumber string `json:"item_number"`
	Supply     string `json:"supply"`
}

type siteSuppliesEntry struct {
	Site     string      `json:"site"`
	Supplies []supplyRow `json:"supplies"`
}

// Seeds sites, employees, items, and links from the curated JSON exports.
// Re-running with the same input is a no-op.
func main() {
	var employeesPath string
	var suppliesPath string
	flag.StringVar(&employeesPath, "employees", "", "path to site-employees JSON ([{site, employees[]}])")
	flag.StringVar(&suppliesPath, "supplies", "site_supplies_aligned.json", "path to site-supplies JSON")
	flag.Parse()

	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	siteRepo := repos.NewSiteRepo(thePG, log)
	employeeRepo := repos.NewEmployeeRepo(thePG, log)
	itemRepo := repos.NewItemRepo(thePG, log)
	siteEmployeeRepo := repos.NewSiteEmployeeRepo(thePG, log)
	siteItemRepo := repos.NewSiteItemRepo(thePG, log)
	rec := services.NewReconciler(thePG, log, siteRepo, employeeRepo, itemRepo, siteEmployeeRepo, siteItemRepo)

	ctx := context.Background()
	employeeLinks := 0
	itemLinks := 0

	if employeesPath != "" {
		var staticSites []siteEmployeesEntry
		if err := readJSON(employeesPath, &staticSites); err != nil {
			log.Error("Failed to load site-employees JSON", "path", employeesPath, "error", err)
			os.Exit(1)
		}
		for _, entry := range staticSites {
			siteID, err := rec.ResolveSite(ctx, entry.Site)
			if err != nil {
				fail(log, "resolve site", entry.Site, err)
			}
			for _, fullName := range entry.Employees {
				employeeID, err := rec.ResolveEmployee(ctx, fullName)
				if err != nil {
					fail(log, "resolve employee", fullName, err)
				}
				if err := rec.LinkSiteEmployee(ctx, siteID, employeeID); err != nil {
					fail(log, "link employee", fullName, err)
				}
				employeeLinks++
			}
		}
	}

	var supplies []siteSuppliesEntry
	if err := readJSON(suppliesPath, &supplies); err != nil {
		log.Error("Failed to load site-supplies JSON", "path", suppliesPath, "error", err)
		os.Exit(1)
	}
	for _, entry := range supplies {
		siteID, err := rec.ResolveSite(ctx, entry.Site)
		if err != nil {
			fail(log, "resolve site", entry.Site, err)
		}
		for _, row := range entry.Supplies {
			// Legacy export quirk: the columns are swapped, "supply" holds
			// the SKU and "item_number" the display name. Header echoes are
			// dropped.
			sku := strings.TrimSpace(row.Supply)
			name := strings.TrimSpace(row.ItemNumber)
			if sku == "" || name == "" {
				continue
			}
			if strings.EqualFold(name, "item") && strings.Contains(strings.ToLower(sku), "item number") {
				continue
			}
			itemID, err := rec.ResolveItem(ctx, &sku, name, "")
			if err != nil {
				fail(log, "resolve item", sku, err)
			}
			if err := rec.LinkSiteItem(ctx, siteID, itemID, nil); err != nil {
				fail(log, "link item", sku, err)
			}
			itemLinks++
		}
	}

	log.Info("Seed complete", "employee_links", employeeLinks, "item_links", itemLinks)
}

func readJSON(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func fail(log *logger.Logger, stage, subject string, err error) {
	log.Error("Seed aborted", "stage", stage, "subject", subject, "error", err)
	os.Exit(1)
}
