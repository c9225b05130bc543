package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carlosgl93/gumucio-propiedades/internal/api/handlers"
	"github.com/carlosgl93/gumucio-propiedades/internal/api/middleware"
	"github.com/carlosgl93/gumucio-propiedades/internal/config"
	"github.com/carlosgl93/gumucio-propiedades/internal/services"
	"github.com/carlosgl93/gumucio-propiedades/internal/storage"
	"github.com/carlosgl93/gumucio-propiedades/internal/validation"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, taskClient *asynq.Client) *gin.Engine {
	objectStorage, err := storage.NewS3Storage(cfg)
	if err != nil {
		log.Fatalf("CRITICAL: Failed to initialize S3 storage for API: %v", err)
	}

	propertyValidator := validation.NewPropertyValidator(validation.NewChileanRules())
	visitValidator := validation.NewVisitOrderValidator(validation.NewChileanRules())

	propertyService := services.NewPropertyService(db, cfg, objectStorage, propertyValidator)
	currencyService := services.NewCurrencyService(cfg, rdb)
	visitOrderService := services.NewVisitOrderService(db, propertyService, visitValidator)

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	propertyHandler := handlers.NewRestPropertyHandler(cfg, propertyService, currencyService, taskClient)
	authHandler := handlers.NewRestAuthHandler(cfg)
	visitHandler := handlers.NewRestVisitHandler(visitOrderService)

	v1 := r.Group("/v1")
	{
		// Public catalog routes
		v1.GET("/property", propertyHandler.ListProperties)
		v1.GET("/property/available", propertyHandler.GetAvailableProperties)
		v1.GET("/property/featured", propertyHandler.GetFeaturedProperties)
		v1.GET("/property/:id", propertyHandler.GetPropertyByID)
		v1.GET("/property/:id/price", propertyHandler.GetPropertyPrice)
		v1.POST("/property/:id/visit-order", visitHandler.CreateVisitOrder)

		v1.POST("/auth/login", authHandler.Login)

		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Admin back-office routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg))
		{
			admin.POST("/property", propertyHandler.CreateProperty)
			admin.PATCH("/property/:id", propertyHandler.UpdateProperty)
			admin.DELETE("/property/:id", propertyHandler.DeleteProperty)
			admin.POST("/property/:id/images", propertyHandler.UploadPropertyImages)
			admin.DELETE("/property/:id/images/:imageId", propertyHandler.DeletePropertyImage)
			admin.PUT("/property/:id/images/order", propertyHandler.ReorderPropertyImages)
			admin.GET("/property/:id/visit-orders", visitHandler.ListVisitOrders)
		}
	}

	return r
}
