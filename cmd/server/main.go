package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Jbmanllr/rental-catalog/config"
	"github.com/Jbmanllr/rental-catalog/internal/app/controller"
	"github.com/Jbmanllr/rental-catalog/internal/app/repository"
	"github.com/Jbmanllr/rental-catalog/internal/app/service"
	"github.com/Jbmanllr/rental-catalog/internal/db"
	"github.com/Jbmanllr/rental-catalog/internal/events"
	"github.com/Jbmanllr/rental-catalog/internal/flags"
	"github.com/Jbmanllr/rental-catalog/internal/middleware"
	"github.com/Jbmanllr/rental-catalog/internal/router"
	"github.com/Jbmanllr/rental-catalog/internal/scheduler"
	"github.com/Jbmanllr/rental-catalog/internal/search"
	"github.com/Jbmanllr/rental-catalog/internal/storage"
	"github.com/Jbmanllr/rental-catalog/pkg/logger"
	"github.com/Jbmanllr/rental-catalog/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting rental catalog server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed shipping profiles and regions
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (event bus + search document store)
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	bus := events.NewRedisBus(redis.GetClient(), "")
	indexer := search.NewRedisIndexer(redis.GetClient(), cfg.Search.IndexName)

	// Initialize repositories
	rentalRepo := repository.NewRentalRepository(db.GetDB())
	variantRepo := repository.NewVariantRepository(db.GetDB())
	optionRepo := repository.NewOptionRepository(db.GetDB())
	priceRepo := repository.NewPriceRepository(db.GetDB())
	regionRepo := repository.NewRegionRepository(db.GetDB())
	tagRepo := repository.NewTagRepository(db.GetDB())
	typeRepo := repository.NewTypeRepository(db.GetDB())
	collectionRepo := repository.NewCollectionRepository(db.GetDB())
	channelRepo := repository.NewSalesChannelRepository(db.GetDB())
	profileRepo := repository.NewShippingProfileRepository(db.GetDB())

	// Initialize services
	flagRouter := flags.NewRouter(&cfg.Features)
	priceSelection := service.NewPriceSelection(priceRepo, regionRepo)
	variantService := service.NewVariantService(
		variantRepo,
		rentalRepo,
		optionRepo,
		priceRepo,
		regionRepo,
		priceSelection,
		bus,
		db.GetDB(),
	)
	rentalService := service.NewRentalService(
		rentalRepo,
		variantRepo,
		optionRepo,
		tagRepo,
		typeRepo,
		channelRepo,
		profileRepo,
		variantService,
		flagRouter,
		bus,
		indexer,
		db.GetDB(),
	)
	collectionService := service.NewCollectionService(collectionRepo)
	typeService := service.NewTypeService(typeRepo)
	tagService := service.NewTagService(tagRepo)

	// Search reindexing
	reindexer := search.NewReindexer(rentalRepo, indexer)
	if cfg.Search.ReindexOnBoot {
		if err := reindexer.ReindexAll(context.Background()); err != nil {
			logger.Warn("Initial search reindex failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	searchScheduler := scheduler.NewSearchScheduler(reindexer, cfg.Search.ReindexSpec)
	if err := searchScheduler.Start(); err != nil {
		logger.Error("Failed to start search scheduler", err)
	}
	defer searchScheduler.Stop()

	// S3 storage for catalog media
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	rentalController := controller.NewRentalController(rentalService, variantService)
	variantController := controller.NewVariantController(variantService)
	collectionController := controller.NewCollectionController(collectionService)
	typeController := controller.NewTypeController(typeService)
	tagController := controller.NewTagController(tagService)
	storeRentalController := controller.NewStoreRentalController(rentalService, priceSelection)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		rentalController,
		variantController,
		collectionController,
		typeController,
		tagController,
		storeRentalController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
