package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/skywardclean/ordering-backend/internal/handlers"
	"github.com/skywardclean/ordering-backend/internal/middleware"
)

type RouterConfig struct {
	SiteHandler          *handlers.SiteHandler
	ImportHandler        *handlers.ImportHandler
	SupplyRequestHandler *handlers.SupplyRequestHandler
	AdminMiddleware      *middleware.AdminMiddleware
	AllowOrigins         []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("ordering-backend"))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Admin-Key", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public: the request flow reads sites and submits finished requests.
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.GET("/sites", cfg.SiteHandler.List)
		api.GET("/sites/:id", cfg.SiteHandler.Detail)
		api.POST("/supply-requests", cfg.SupplyRequestHandler.Submit)
	}

	// Admin: every mutation of the catalog.
	admin := router.Group("/admin")
	admin.Use(cfg.AdminMiddleware.RequireAdmin())
	{
		admin.POST("/sites", cfg.SiteHandler.Create)
		admin.DELETE("/sites/:id", cfg.SiteHandler.Delete)
		admin.POST("/sites/:id/employees", cfg.SiteHandler.AddEmployee)
		admin.DELETE("/sites/:id/employees/:employeeId", cfg.SiteHandler.RemoveEmployee)
		admin.POST("/sites/:id/items", cfg.SiteHandler.AddItem)
		admin.DELETE("/sites/:id/items/:itemId", cfg.SiteHandler.RemoveItem)
		admin.PUT("/sites/:id/items/:itemId/par", cfg.SiteHandler.SetPar)
		admin.PUT("/sites/:id/items/:itemId/image", cfg.SiteHandler.SetImage)
		admin.PUT("/items/:itemId/category", cfg.SiteHandler.SetItemCategory)
		admin.POST("/import", cfg.ImportHandler.Import)
	}

	return router
}
