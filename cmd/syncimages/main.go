package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/skywardclean/ordering-backend/internal/clients/drive"
	"github.com/skywardclean/ordering-backend/internal/db"
	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/repos"
	"github.com/skywardclean/ordering-backend/internal/services"
	"github.com/skywardclean/ordering-backend/internal/utils"
)

// Mirrors the product image tree into the bucket and links images to
// site items by SKU. Source is either a Google Drive folder of
// folder-per-site images (-drive, or DRIVE_FOLDER_ID) or a local
// directory with the same layout (-dir).
func main() {
	var driveFolderID string
	var localDir string
	flag.StringVar(&driveFolderID, "drive", "", "Drive folder id holding one subfolder per site")
	flag.StringVar(&localDir, "dir", "", "local directory holding one subdirectory per site")
	flag.Parse()

	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if driveFolderID == "" {
		driveFolderID = utils.GetEnv("DRIVE_FOLDER_ID", "", log)
	}
	if driveFolderID == "" && localDir == "" {
		log.Error("Nothing to do, pass -drive (or set DRIVE_FOLDER_ID) or -dir")
		os.Exit(1)
	}
	if driveFolderID != "" && localDir != "" {
		log.Error("Pass only one of -drive and -dir")
		os.Exit(1)
	}

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Error("Could not init BucketService", "error", err)
		os.Exit(1)
	}

	siteRepo := repos.NewSiteRepo(thePG, log)
	itemRepo := repos.NewItemRepo(thePG, log)
	siteItemRepo := repos.NewSiteItemRepo(thePG, log)

	ctx := context.Background()

	var driveClient drive.Client
	if driveFolderID != "" {
		driveClient, err = drive.NewFromEnv(ctx, log)
		if err != nil {
			log.Error("Could not init Drive client", "error", err)
			os.Exit(1)
		}
	}

	sync := services.NewImageSyncService(log, driveClient, bucketService, siteRepo, itemRepo, siteItemRepo)

	var stats *services.SyncStats
	if driveFolderID != "" {
		stats, err = sync.SyncDrive(ctx, driveFolderID)
	} else {
		stats, err = sync.SyncLocalDir(ctx, localDir)
	}
	if err != nil {
		log.Error("Image sync failed", "error", err)
		os.Exit(1)
	}

	log.Info("Image sync complete",
		"uploaded", stats.Uploaded,
		"linked", stats.Linked,
		"skipped_sites", stats.SkippedSites,
		"skipped_files", stats.SkippedFiles,
	)
}
