// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/javajoker/solar-catalog/internal/config"
	"github.com/javajoker/solar-catalog/internal/handlers"
	"github.com/javajoker/solar-catalog/internal/metrics"
	"github.com/javajoker/solar-catalog/internal/middleware"
	"github.com/javajoker/solar-catalog/internal/services"
	"github.com/javajoker/solar-catalog/internal/utils"
)

// Services are the wired application services. Products is nil when no
// database is configured, which disables the admin product routes.
type Services struct {
	Catalog  *services.CatalogService
	Sessions *services.SessionService
	Export   *services.ExportService
	Products *services.ProductService
	Cache    services.CacheInvalidator
}

func Initialize(db *gorm.DB, cfg *config.Config, svc Services) *gin.Engine {
	// Initialize handlers
	timeout := time.Duration(cfg.Catalog.RequestTimeout) * time.Second
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog, svc.Export, svc.Cache, timeout)
	sessionHandler := handlers.NewSessionHandler(svc.Sessions)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if !svc.Catalog.Loaded() {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":   status,
			"version":  "1.0.0",
			"products": svc.Catalog.Size(),
			"sessions": svc.Sessions.Count(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(middleware.GeneralRateLimit())
	{
		catalogRoutes := v1.Group("/catalog")
		{
			catalogRoutes.GET("", catalogHandler.Search)
			catalogRoutes.GET("/facets", catalogHandler.Facets)
			catalogRoutes.GET("/export", middleware.ExportRateLimit(), catalogHandler.Export)
			catalogRoutes.GET("/products/:id", catalogHandler.GetProduct)

			sessions := catalogRoutes.Group("/sessions")
			{
				sessions.POST("", sessionHandler.Create)
				sessions.GET("/:id", sessionHandler.Get)
				sessions.POST("/:id/actions", sessionHandler.Dispatch)
				sessions.PUT("/:id/search", sessionHandler.SetSearch)
				sessions.PUT("/:id/sort", sessionHandler.SetSort)
				sessions.POST("/:id/clear", sessionHandler.Clear)
				sessions.POST("/:id/groups/:group/toggle", sessionHandler.ToggleGroup)
				sessions.DELETE("/:id", sessionHandler.Delete)
			}
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AdminRateLimit())
		if db != nil {
			admin.Use(middleware.AuditLogMiddleware(db))
		}
		{
			adminCatalog := admin.Group("/catalog")
			{
				adminCatalog.POST("/reload", catalogHandler.Reload)
				adminCatalog.POST("/feed", catalogHandler.PublishFeed)
			}

			if svc.Products != nil {
				productHandler := handlers.NewProductHandler(svc.Products)
				adminProducts := admin.Group("/products")
				{
					adminProducts.GET("", productHandler.ListProducts)
					adminProducts.GET("/:id", productHandler.GetProduct)
					adminProducts.POST("", productHandler.CreateProduct)
					adminProducts.POST("/import", middleware.UploadRateLimit(), productHandler.ImportProducts)
					adminProducts.PUT("/:id", productHandler.UpdateProduct)
					adminProducts.DELETE("/:id", productHandler.DeleteProduct)
				}
			}
		}
	}

	return r
}
