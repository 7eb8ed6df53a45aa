package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/skywardclean/ordering-backend/internal/clients/sendgrid"
	"github.com/skywardclean/ordering-backend/internal/clients/slack"
	"github.com/skywardclean/ordering-backend/internal/db"
	"github.com/skywardclean/ordering-backend/internal/handlers"
	"github.com/skywardclean/ordering-backend/internal/logger"
	"github.com/skywardclean/ordering-backend/internal/middleware"
	"github.com/skywardclean/ordering-backend/internal/observability"
	"github.com/skywardclean/ordering-backend/internal/repos"
	"github.com/skywardclean/ordering-backend/internal/server"
	"github.com/skywardclean/ordering-backend/internal/services"
	"github.com/skywardclean/ordering-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	shutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "ordering-backend",
		Environment: logMode,
	})
	if shutdown != nil {
		defer func() { _ = shutdown(context.Background()) }()
	}

	adminKey := utils.GetEnv("ADMIN_API_KEY", "", log)
	toEmail := utils.GetEnv("REQUESTS_TO_EMAIL", "supervisor@example.com", log)
	slackEmail := utils.GetEnv("SLACK_CHANNEL_EMAIL", "", log)
	slackWebhookURL := utils.GetEnv("SLACK_WEBHOOK_URL", "", log)
	port := utils.GetEnv("PORT", "8080", log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	siteRepo := repos.NewSiteRepo(thePG, log)
	employeeRepo := repos.NewEmployeeRepo(thePG, log)
	itemRepo := repos.NewItemRepo(thePG, log)
	siteEmployeeRepo := repos.NewSiteEmployeeRepo(thePG, log)
	siteItemRepo := repos.NewSiteItemRepo(thePG, log)

	// Services
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, image uploads disabled", "error", err)
	}
	mailer, err := sendgrid.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init SendGrid client", "error", err)
		os.Exit(1)
	}
	var slackWebhook slack.WebhookClient
	if slackWebhookURL != "" {
		slackWebhook, err = slack.NewWebhookClient(log, slackWebhookURL)
		if err != nil {
			log.Warn("Could not init Slack webhook client", "error", err)
		}
	}

	siteService := services.NewSiteService(thePG, log, bucketService, siteRepo, employeeRepo, itemRepo, siteEmployeeRepo, siteItemRepo)
	importService := services.NewImportService(thePG, log, siteRepo, employeeRepo, itemRepo, siteEmployeeRepo, siteItemRepo)
	requestService := services.NewSupplyRequestService(log, mailer, slackWebhook, toEmail, slackEmail)

	// Handlers
	siteHandler := handlers.NewSiteHandler(siteService)
	importHandler := handlers.NewImportHandler(importService)
	requestHandler := handlers.NewSupplyRequestHandler(requestService)
	adminMiddleware := middleware.NewAdminMiddleware(log, adminKey)

	var origins []string
	if allowOrigins != "" {
		origins = strings.Split(allowOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		SiteHandler:          siteHandler,
		ImportHandler:        importHandler,
		SupplyRequestHandler: requestHandler,
		AdminMiddleware:      adminMiddleware,
		AllowOrigins:         origins,
	})

	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
