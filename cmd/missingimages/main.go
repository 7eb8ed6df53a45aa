package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/skywardclean/ordering-backend/internal/db"
	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/repos"
	"github.com/skywardclean/ordering-backend/internal/services"
)

// Writes a workbook listing every site item and whether it has an image,
// for the periodic catalog cleanup pass.
func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "missing_images.xlsx", "output workbook path")
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
	thePG := postgresService.DB()

	siteRepo := repos.NewSiteRepo(thePG, log)
	itemRepo := repos.NewItemRepo(thePG, log)
	siteItemRepo := repos.NewSiteItemRepo(thePG, log)

	report := services.NewReportService(log, siteRepo, itemRepo, siteItemRepo)

	data, stats, err := report.BuildMissingImagesReport(context.Background())
	if err != nil {
		log.Error("Report build failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Error("Could not write report", "path", outPath, "error", err)
		os.Exit(1)
	}

	log.Info("Report written", "path", outPath, "links", stats.Links, "missing_images", stats.MissingImages)
}
