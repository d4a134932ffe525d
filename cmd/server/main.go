// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/config"
	"github.com/javajoker/solar-catalog/internal/database"
	"github.com/javajoker/solar-catalog/internal/i18n"
	"github.com/javajoker/solar-catalog/internal/logger"
	"github.com/javajoker/solar-catalog/internal/messaging"
	"github.com/javajoker/solar-catalog/internal/repository"
	"github.com/javajoker/solar-catalog/internal/router"
	"github.com/javajoker/solar-catalog/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	closeLog, err := logger.Setup(cfg.Log)
	if err != nil {
		logrus.Fatal("Failed to configure logging: ", err)
	}
	defer closeLog()

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.LocalesPath, cfg.I18n.DefaultLocale); err != nil {
		logrus.Fatal("Failed to initialize i18n: ", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.Fatal("Failed to initialize database: ", err)
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.Fatal("Failed to run migrations: ", err)
	}
	if cfg.Database.SeedDemoData {
		if err := database.SeedDemoData(db); err != nil {
			logrus.Fatal("Failed to seed demo data: ", err)
		}
	}

	source, feed := productSource(cfg, db)

	// Optional snapshot cache shared by every instance
	var cache services.CacheInvalidator
	if cfg.Redis.Enabled() {
		client, err := repository.NewRedisClient(cfg.Redis)
		if err != nil {
			logrus.Fatal("Failed to initialize redis: ", err)
		}
		defer client.Close()
		store := repository.NewRedisSnapshotStore(client, cfg.Redis.SnapshotKey, cfg.Redis.TTL())
		cached := repository.NewCachedSource(source, store)
		source, cache = cached, cached
	}

	bus := changeBus(cfg)
	defer bus.Close()

	// Catalog services
	tag, err := language.Parse(cfg.Catalog.Locale)
	if err != nil {
		logrus.WithError(err).Warnf("Unknown catalog locale %q, using default collation", cfg.Catalog.Locale)
		tag = catalog.DefaultLanguage
	}
	catalogService := services.NewCatalogService(source, services.CatalogOptions{
		Language:    tag,
		PriceFloor:  cfg.Catalog.PriceFloor,
		DefaultSort: catalog.SortKey(cfg.Catalog.DefaultSort),
		Feed:        feed,
	})
	sessionService := services.NewSessionService(catalogService, cfg.Catalog.SessionTimeout(), cfg.Catalog.MaxSessions)
	exportService := services.NewExportService(catalogService, cfg.Catalog.ExportMaxRows)
	productService := services.NewProductService(db, bus, cache)

	catalogService.OnReload(sessionService.Rebase)

	reloadTimeout := time.Duration(cfg.Catalog.RequestTimeout) * time.Second
	if err := bus.Subscribe(func(change messaging.CatalogChange) {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		if err := catalogService.Reload(ctx); err != nil {
			logrus.WithError(err).WithField("action", change.Action).Error("Failed to reload catalog after change")
		}
	}); err != nil {
		logrus.Fatal("Failed to subscribe to catalog changes: ", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	loadCtx, cancelLoad := context.WithTimeout(ctx, 30*time.Second)
	if err := catalogService.Reload(loadCtx); err != nil {
		logrus.WithError(err).Error("Initial catalog load failed, serving degraded until the next reload")
	}
	cancelLoad()

	sessionService.StartCleanup(ctx, time.Minute)
	if cfg.Catalog.ReloadInterval > 0 {
		startReloadTicker(ctx, catalogService, time.Duration(cfg.Catalog.ReloadInterval)*time.Second, reloadTimeout)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(db, cfg, router.Services{
		Catalog:  catalogService,
		Sessions: sessionService,
		Export:   exportService,
		Products: productService,
		Cache:    cache,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")
	stop()

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
	}

	logrus.Info("Server exited")
}

// productSource picks where the catalog is loaded from. The S3 source
// doubles as the feed publisher whenever a bucket is configured.
func productSource(cfg *config.Config, db *gorm.DB) (repository.ProductSource, services.FeedPublisher) {
	var feed *repository.S3Source
	if cfg.AWS.S3Bucket != "" {
		client, err := repository.NewS3Client(cfg.AWS)
		switch {
		case err == nil:
			feed = repository.NewS3Source(client, cfg.AWS.S3Bucket, cfg.Catalog.FeedKey)
		case cfg.Catalog.Source == "s3":
			logrus.Fatal("Failed to initialize S3: ", err)
		default:
			logrus.WithError(err).Warn("S3 unavailable, feed publishing disabled")
		}
	}

	if cfg.Catalog.Source == "s3" {
		logrus.WithField("feed", cfg.Catalog.FeedKey).Info("Loading catalog from S3 feed")
		return feed, feed
	}

	logrus.Info("Loading catalog from postgres")
	if feed == nil {
		return repository.NewPostgresSource(db), nil
	}
	return repository.NewPostgresSource(db), feed
}

// changeBus connects to RabbitMQ when configured so every instance hears
// catalog changes, and falls back to in-process delivery otherwise.
func changeBus(cfg *config.Config) messaging.Bus {
	if cfg.Rabbit.URL == "" {
		return messaging.NewLocalBus()
	}
	bus, err := messaging.NewRabbitBus(cfg.Rabbit.URL, cfg.Rabbit.ExchangePrefix)
	if err != nil {
		logrus.Fatal("Failed to connect to RabbitMQ: ", err)
	}
	return bus
}

func startReloadTicker(ctx context.Context, catalogService *services.CatalogService, interval, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				reloadCtx, cancel := context.WithTimeout(ctx, timeout)
				if err := catalogService.Reload(reloadCtx); err != nil {
					logrus.WithError(err).Warn("Scheduled catalog reload failed")
				}
				cancel()
			}
		}
	}()
}
