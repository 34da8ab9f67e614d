package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/egnner/project-delivery-sub001/config"
	"github.com/egnner/project-delivery-sub001/controllers"
	"github.com/egnner/project-delivery-sub001/middleware"
	"github.com/egnner/project-delivery-sub001/models"
	"github.com/egnner/project-delivery-sub001/services"
)

func main() {
	log.Println("Starting delivery order API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.StoreSettings{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Notification hub and order service
	hub := services.InitHub()
	services.InitOrderService(hub)

	// Product image uploads are optional; without a bucket the endpoints
	// report uploads as disabled
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(s3Service)
	} else {
		log.Println("AWS_S3_BUCKET not set, product image uploads disabled")
	}

	router := setupRouter(cfg, middleware.EnsureValidToken(cfg))

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter configures all routes. The auth middleware guarding staff
// routes is injected so tests can substitute a fake token validator.
func setupRouter(cfg *config.Config, auth gin.HandlerFunc) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if cfg.AllowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.AllowedOrigins}
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Public storefront
		v1.GET("/products", controllers.ListProducts)
		v1.GET("/categories", controllers.ListCategories)
		v1.GET("/settings", controllers.GetSettings)
		v1.POST("/orders", controllers.CreateOrder)
		v1.GET("/orders/:id", controllers.GetOrder)
		v1.GET("/orders/:id/ws", controllers.OrderSocket)

		// Staff dashboard
		staff := v1.Group("/staff")
		staff.Use(auth)
		{
			staff.POST("/users", controllers.CreateUser)
			staff.GET("/users/me", controllers.GetCurrentUser)

			staff.GET("/orders", controllers.ListOrders)
			staff.POST("/orders/:id/confirm-payment", controllers.ConfirmPayment)
			staff.POST("/orders/:id/reject-payment", controllers.RejectPayment)
			staff.PATCH("/orders/:id/status", controllers.UpdateOrderStatus)
			staff.GET("/ws", controllers.StaffSocket)

			staff.GET("/products", controllers.ListAllProducts)
			staff.POST("/products", controllers.CreateProduct)
			staff.PUT("/products/:id", controllers.UpdateProduct)
			staff.DELETE("/products/:id", controllers.DeleteProduct)
			staff.POST("/products/:id/image", controllers.UploadProductImage)

			staff.POST("/categories", controllers.CreateCategory)
			staff.PUT("/categories/:id", controllers.UpdateCategory)
			staff.DELETE("/categories/:id", controllers.DeleteCategory)

			staff.PUT("/settings", controllers.UpdateSettings)
			staff.GET("/reports/summary", controllers.SalesSummary)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Delivery order API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
