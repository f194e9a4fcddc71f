package router

import (
	"github.com/Jbmanllr/rental-catalog/config"
	"github.com/Jbmanllr/rental-catalog/internal/app/controller"
	"github.com/Jbmanllr/rental-catalog/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	rentalController      *controller.RentalController
	variantController     *controller.VariantController
	collectionController  *controller.CollectionController
	typeController        *controller.TypeController
	tagController         *controller.TagController
	storeRentalController *controller.StoreRentalController
	uploadController      *controller.UploadController
	authMiddleware        *middleware.AuthMiddleware
	config                *config.Config
}

func NewRouter(
	rentalController *controller.RentalController,
	variantController *controller.VariantController,
	collectionController *controller.CollectionController,
	typeController *controller.TypeController,
	tagController *controller.TagController,
	storeRentalController *controller.StoreRentalController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		rentalController:      rentalController,
		variantController:     variantController,
		collectionController:  collectionController,
		typeController:        typeController,
		tagController:         tagController,
		storeRentalController: storeRentalController,
		uploadController:      uploadController,
		authMiddleware:        authMiddleware,
		config:                cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "rental catalog API is running",
		})
	})

	admin := router.Group("/admin")
	admin.Use(r.authMiddleware.Authenticate())
	admin.Use(r.authMiddleware.RequireRole("admin"))
	{
		rentals := admin.Group("/rentals")
		{
			rentals.GET("", r.rentalController.ListRentals)
			rentals.GET("/:id", r.rentalController.GetRental)
			rentals.POST("", r.rentalController.CreateRental)
			rentals.POST("/:id", r.rentalController.UpdateRental)
			rentals.DELETE("/:id", r.rentalController.DeleteRental)

			rentals.POST("/:id/options", r.rentalController.AddOption)
			rentals.POST("/:id/options/:option_id", r.rentalController.UpdateOption)
			rentals.DELETE("/:id/options/:option_id", r.rentalController.DeleteOption)

			rentals.POST("/:id/variants", r.rentalController.CreateVariant)
			rentals.PUT("/:id/variants/reorder", r.rentalController.ReorderVariants)
		}

		variants := admin.Group("/variants")
		{
			variants.GET("", r.variantController.ListVariants)
			variants.GET("/:id", r.variantController.GetVariant)
			variants.POST("/:id", r.variantController.UpdateVariant)
			variants.DELETE("/:id", r.variantController.DeleteVariant)

			variants.POST("/:id/prices", r.variantController.UpdatePrices)
			variants.GET("/:id/prices/region/:region_id", r.variantController.GetRegionPrice)
			variants.POST("/:id/prices/region/:region_id", r.variantController.SetRegionPrice)
			variants.POST("/:id/prices/currency/:currency_code", r.variantController.SetCurrencyPrice)

			variants.POST("/:id/options", r.variantController.AddOptionValue)
			variants.POST("/:id/options/:option_id", r.variantController.UpdateOptionValue)
			variants.DELETE("/:id/options/:option_id", r.variantController.DeleteOptionValue)
		}

		collections := admin.Group("/collections")
		{
			collections.GET("", r.collectionController.ListCollections)
			collections.GET("/:id", r.collectionController.GetCollection)
			collections.POST("", r.collectionController.CreateCollection)
			collections.POST("/:id", r.collectionController.UpdateCollection)
			collections.DELETE("/:id", r.collectionController.DeleteCollection)
		}

		types := admin.Group("/rental-types")
		{
			types.GET("", r.typeController.ListTypes)
			types.GET("/:id", r.typeController.GetType)
		}

		tags := admin.Group("/rental-tags")
		{
			tags.GET("", r.tagController.ListTags)
			tags.GET("/usage", r.tagController.ListTagsByUsage)
		}

		uploads := admin.Group("/uploads")
		{
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	store := router.Group("/store")
	{
		store.GET("/rentals", r.storeRentalController.ListRentals)
		store.GET("/rentals/:id", r.storeRentalController.GetRental)
		store.GET("/rentals/handle/:handle", r.storeRentalController.GetRentalByHandle)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
