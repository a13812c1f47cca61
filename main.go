package main

import (
	"log"
	"os"
	"time"

	"github.com/finvault/banking-api/config"
	"github.com/finvault/banking-api/handlers"
	"github.com/finvault/banking-api/middleware"
	"github.com/finvault/banking-api/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := config.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	log.Println("✅ Database connected successfully")

	if err := config.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	wsHandler := handlers.NewWSHandler()

	router := gin.Default()

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	corsConfig := cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("📨 %s %s - %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	})

	router.Use(middleware.RateLimiter())

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, db)
		v1.GET("/ws/alerts", wsHandler.HandleWS)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.SetupUserRoutes(protected, db)
			routes.SetupAccountRoutes(protected, db)
			routes.SetupTransactionRoutes(protected, db)
			routes.SetupCategoryRoutes(protected, db)
			routes.SetupBudgetRoutes(protected, db, wsHandler)
			routes.SetupAlertRoutes(protected, db, wsHandler)
			routes.SetupBillRoutes(protected, db)
			routes.SetupRewardRoutes(protected, db)
			routes.SetupInsightsRoutes(protected, db)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
