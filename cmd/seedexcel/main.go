package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"

	"github.com/skywardclean/ordering-backend/internal/db"
	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/repos"
	"github.com/skywardclean/ordering-backend/internal/services"
)

// Seeds from the two legacy workbooks: a supply list with one sheet per
// site (item rows start after the "ITEM" header cell) and a staff list of
// "Full Name - Site Name" cells.
func main() {
	var supplyPath string
	var staffPath string
	flag.StringVar(&supplyPath, "supply", "", "path to the supply list workbook (sheet per site)")
	flag.StringVar(&staffPath, "staff", "", "path to the job site staff workbook")
	flag.Parse()

	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if supplyPath == "" && staffPath == "" {
		log.Error("Nothing to do, pass -supply and/or -staff")
		os.Exit(1)
	}

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
	siteCount, itemCount, empCount := 0, 0, 0

	if supplyPath != "" {
		f, err := excelize.OpenFile(supplyPath)
		if err != nil {
			log.Error("Failed to open supply workbook", "path", supplyPath, "error", err)
			os.Exit(1)
		}
		for _, sheetName := range f.GetSheetList() {
			rows, err := f.GetRows(sheetName)
			if err != nil {
				log.Error("Failed to read sheet", "sheet", sheetName, "error", err)
				os.Exit(1)
			}
			headerIdx := -1
			for i, row := range rows {
				if len(row) > 0 && strings.TrimSpace(row[0]) == "ITEM" {
					headerIdx = i
					break
				}
			}
			if headerIdx == -1 {
				log.Warn("Sheet has no ITEM header row, skipping", "sheet", sheetName)
				continue
			}
			siteID, err := rec.ResolveSite(ctx, sheetName)
			if err != nil {
				log.Error("Seed aborted", "stage", "resolve site", "site", sheetName, "error", err)
				os.Exit(1)
			}
			siteCount++
			for _, row := range rows[headerIdx+1:] {
				if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
					continue
				}
				name := strings.TrimSpace(row[0])
				sku := ""
				if len(row) > 1 {
					sku = strings.TrimSpace(row[1])
				}
				var skuPtr *string
				if sku != "" {
					skuPtr = &sku
				}
				itemID, err := rec.ResolveItem(ctx, skuPtr, name, services.Categorize(name, sku))
				if err != nil {
					log.Error("Seed aborted", "stage", "resolve item", "item", name, "error", err)
					os.Exit(1)
				}
				itemCount++
				if err := rec.LinkSiteItem(ctx, siteID, itemID, nil); err != nil {
					log.Error("Seed aborted", "stage", "link item", "item", name, "error", err)
					os.Exit(1)
				}
			}
		}
		_ = f.Close()
	}

	if staffPath != "" {
		f, err := excelize.OpenFile(staffPath)
		if err != nil {
			log.Error("Failed to open staff workbook", "path", staffPath, "error", err)
			os.Exit(1)
		}
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			log.Error("Staff workbook has no sheets")
			os.Exit(1)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			log.Error("Failed to read staff sheet", "error", err)
			os.Exit(1)
		}
		for _, row := range rows {
			if len(row) == 0 {
				continue
			}
			cell := strings.TrimSpace(row[0])
			if cell == "" {
				continue
			}
			parts := strings.SplitN(cell, " - ", 2)
			if len(parts) != 2 {
				continue
			}
			fullName := strings.TrimSpace(parts[0])
			siteName := strings.TrimSpace(parts[1])
			siteID, err := rec.ResolveSite(ctx, siteName)
			if err != nil {
				log.Error("Seed aborted", "stage", "resolve site", "site", siteName, "error", err)
				os.Exit(1)
			}
			employeeID, err := rec.ResolveEmployee(ctx, fullName)
			if err != nil {
				log.Error("Seed aborted", "stage", "resolve employee", "employee", fullName, "error", err)
				os.Exit(1)
			}
			empCount++
			if err := rec.LinkSiteEmployee(ctx, siteID, employeeID); err != nil {
				log.Error("Seed aborted", "stage", "link employee", "employee", fullName, "error", err)
				os.Exit(1)
			}
		}
		_ = f.Close()
	}

	log.Info("Imported", "sites", siteCount, "items", itemCount, "employees", empCount)
}
