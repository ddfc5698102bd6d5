package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library

	"github.com/GPT-Engineer-App/fin-track/internal/api"        // Custom package for API handlers
	"github.com/GPT-Engineer-App/fin-track/internal/config"     // Custom package for configuration
	"github.com/GPT-Engineer-App/fin-track/internal/domain"     // Domain models
	"github.com/GPT-Engineer-App/fin-track/internal/manager"    // Per-user transaction managers
	"github.com/GPT-Engineer-App/fin-track/internal/middleware" // Custom package for middleware
	"github.com/GPT-Engineer-App/fin-track/internal/session"    // Magic-link session provider
	mysqlstore "github.com/GPT-Engineer-App/fin-track/internal/storage/mysql"
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Wire the collaborators: one store for rows and users, Redis for
	// tokens, the log mailer for link delivery
	store := mysqlstore.New(db)
	provider := session.New(store, session.NewRedisTokenStore(redisClient), session.LogMailer{}, cfg.JWTSecret, cfg.AppBaseURL)
	registry := manager.NewRegistry(store)

	// Any session change resets the user's downstream transaction state
	provider.OnChange(func(userID uint, _ *domain.Session) {
		registry.Evict(userID)
	})

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Entry surface (unauthenticated)
	r.POST("/auth/link", api.RequestLinkHandler(provider))  // Request a magic link
	r.GET("/auth/verify", api.VerifyLinkHandler(provider))  // Consume the link, get a session

	// App surface (session required)
	app := r.Group("/")
	app.Use(middleware.SessionGate(provider)) // Gate every route on the current session
	app.GET("", api.AppInfoHandler())         // Title, categories, sign-out action
	app.POST("/auth/signout", api.SignOutHandler(provider))
	app.GET("/transactions", api.ListTransactionsHandler(registry))          // Filtered view + balance
	app.POST("/transactions", api.CreateTransactionHandler(registry))        // Create via the form
	app.PUT("/transactions/:id", api.UpdateTransactionHandler(registry))     // Update via the form
	app.DELETE("/transactions/:id", api.DeleteTransactionHandler(registry))  // Irreversible delete
	app.GET("/transactions/export", api.ExportTransactionsHandler(registry)) // transactions.json download

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
