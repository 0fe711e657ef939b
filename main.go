package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/threadline/threadline-api/config"
	"github.com/threadline/threadline-api/controllers"
	"github.com/threadline/threadline-api/middleware"
	"github.com/threadline/threadline-api/models"
	"github.com/threadline/threadline-api/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := config.InitLogger(cfg)
	log.Info("Starting Threadline Apparel API server...")

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Tailor{},
		&models.CustomOrder{},
		&models.ClothCustomizer{},
		&models.OrderAssignment{},
		&models.ClothingItem{},
		&models.InventoryAdjustment{},
		&models.AdjustmentItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Info("Database migration completed successfully")

	// Connect to Redis (optional, busy-count caching only)
	if err := config.ConnectRedis(cfg.RedisURL); err != nil {
		log.Warnf("Redis unavailable, continuing without caching: %v", err)
	}

	// Preview galleries need the S3 presigner; skip when not configured
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitPreviewService(s3Service)
	} else {
		log.Info("AWS_S3_BUCKET not set, preview galleries disabled")
	}

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Infof("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures the gin engine with middleware and all routes
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "https://threadline.app"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		authed := v1.Group("")
		authed.Use(middleware.EnsureValidToken(cfg))
		{
			// User directory
			authed.POST("/users", controllers.CreateUser)
			authed.GET("/users/me", controllers.GetMyProfile)

			// Tailor registry
			authed.POST("/tailors", controllers.RegisterTailor)
			authed.GET("/tailors", controllers.ListTailors)
			authed.PATCH("/tailors/:id/deactivate", controllers.DeactivateTailor)

			// Orders
			authed.POST("/custom-orders", controllers.CreateCustomOrder)
			authed.GET("/custom-orders/mine", controllers.ListMyCustomOrders)
			authed.PATCH("/custom-orders/:id/status", controllers.UpdateCustomOrderStatus)
			authed.POST("/customizers", controllers.CreateCustomizer)
			authed.GET("/orders/:source/:id", controllers.GetOrder)

			// Assignment engine
			authed.POST("/order-assignments/assign", controllers.AssignOrder)
			authed.GET("/order-assignments", controllers.ListAssignments)
			authed.GET("/order-assignments/by-tailor", controllers.ListAssignmentsByTailor)
			authed.GET("/order-assignments/mine", controllers.ListMyAssignments)
			authed.PATCH("/order-assignments/:id/status", controllers.UpdateAssignmentStatus)

			// Outlet inventory
			authed.GET("/items", controllers.ListItems)
			authed.PATCH("/items/:id/stock", controllers.UpdateItemStock)
			authed.POST("/inventory/adjustments", controllers.CreateAdjustment)
			authed.POST("/inventory/adjustments/apply", controllers.ApplyAdjustment)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Threadline Apparel API is running",
	})
}
