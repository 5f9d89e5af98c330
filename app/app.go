package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"dijital-vitrin/analytics"
	"dijital-vitrin/app/controller"
	"dijital-vitrin/app/middleware"
	"dijital-vitrin/app/router"
	"dijital-vitrin/config"
	"dijital-vitrin/db"
	"dijital-vitrin/repository"
	"dijital-vitrin/schema"
	"dijital-vitrin/service"
)

// Dependencies are the storage and integration backends behind the handlers
type Dependencies struct {
	Stores     repository.StoreRepositoryInterface
	Categories repository.CategoryRepositoryInterface
	Products   repository.ProductRepositoryInterface
	Events     repository.AnalyticsRepositoryInterface
	Listings   service.ListingCacheInterface
	Beacon     analytics.Dispatcher
	// Drive is optional; image import answers 503 without it
	Drive service.DriveServiceInterface
}

// Build wires services and controllers over deps and returns the HTTP handler
func Build(cfg *config.Config, deps Dependencies) http.Handler {
	schemas := schema.NewCache()
	media := service.NewMediaStore(cfg.MediaDir)

	storefront := service.NewStorefrontService(deps.Stores, deps.Categories, deps.Products, deps.Listings, schemas)
	categories := service.NewCategoryService(deps.Categories, schemas)
	products := service.NewProductService(deps.Products, categories, storefront, media)
	catalog := service.NewCatalogService(storefront, cfg.BaseURL, cfg.ChromePath)

	var imports service.ImageImportServiceInterface
	if deps.Drive != nil {
		imports = service.NewImageImportService(deps.Drive, deps.Products, media, deps.Listings)
	}

	controllers := &router.Controllers{
		Storefront: controller.NewStorefrontController(storefront, catalog),
		Cart:       controller.NewCartController(storefront, deps.Beacon),
		Order:      controller.NewOrderController(storefront, deps.Beacon),
		Analytics:  controller.NewAnalyticsController(deps.Stores, deps.Events),
		Category:   controller.NewCategoryController(categories),
		Product:    controller.NewProductController(products, imports),
		Catalog:    controller.NewCatalogController(storefront, catalog),
	}

	return router.SetupRoutes(controllers, router.Options{
		Auth:          middleware.NewTokenAuth(cfg.JWTSecret),
		BeaconLimiter: middleware.NewRateLimiter(cfg.AnalyticsRPS, cfg.AnalyticsBurst).WithTrustedProxies(cfg.TrustedProxies),
		MediaDir:      media.Dir(),
	})
}

// beaconFor posts to an external collector when one is configured and
// otherwise records events in process
func beaconFor(cfg *config.Config, events analytics.EventStore) analytics.Dispatcher {
	if cfg.AnalyticsEndpoint != "" {
		log.Printf("✓ Analytics beacons posted to %s", cfg.AnalyticsEndpoint)
		return analytics.NewClient(cfg.AnalyticsEndpoint)
	}
	return analytics.NewRecorder(events)
}

// Initialize connects the database and the optional backends and returns
// the handler with a cleanup function
func Initialize(ctx context.Context, cfg *config.Config) (http.Handler, func(), error) {
	// Initialize database connection
	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.CloseDB()
		return nil, nil, err
	}

	media := service.NewMediaStore(cfg.MediaDir)
	if err := media.EnsureDir(); err != nil {
		db.CloseDB()
		return nil, nil, err
	}

	deps := Dependencies{
		Stores:     repository.NewStoreRepository(),
		Categories: repository.NewCategoryRepository(),
		Products:   repository.NewProductRepository(),
		Events:     repository.NewAnalyticsRepository(),
		Listings:   service.NoopListingCache{},
	}
	deps.Beacon = beaconFor(cfg, deps.Events)

	closers := []func(){func() { db.CloseDB() }}
	if cfg.RedisAddr != "" {
		redisCache := service.NewRedisListingCache(cfg.RedisAddr, cfg.ListingTTL)
		deps.Listings = redisCache
		closers = append(closers, func() { redisCache.Close() })
		log.Printf("✓ Listing cache enabled at %s (ttl %s)", cfg.RedisAddr, cfg.ListingTTL)
	}

	if cfg.GoogleCredentials != "" {
		driveService, err := service.NewDriveService(ctx, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("⚠️ Drive import disabled: %v", err)
		} else {
			deps.Drive = driveService
		}
	} else {
		log.Printf("⚠️ GOOGLE_APPLICATION_CREDENTIALS is not set, Drive import disabled")
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return Build(cfg, deps), cleanup, nil
}
