package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/linkcircle/backend/internal/router"
	"github.com/linkcircle/backend/pkg/config"
	"github.com/linkcircle/backend/pkg/identity"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB(cfg.PostgresURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	// Initialize the identity provider
	ctx := context.Background()
	provider, err := identity.New(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize identity provider: %v", err)
	}

	// Redis backs rate limiting only; the server runs without it.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Invalid REDIS_URL, continuing without rate limiting: %v", err)
		} else {
			rdb = redis.NewClient(opts)
		}
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db, provider, rdb, cfg)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
