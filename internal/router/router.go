package router

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/linkcircle/backend/internal/handlers"
	"github.com/linkcircle/backend/internal/middleware"
	"github.com/linkcircle/backend/internal/models"
	"github.com/linkcircle/backend/internal/repositories"
	"github.com/linkcircle/backend/pkg/config"
	"github.com/linkcircle/backend/pkg/identity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware.
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// HTTPErrorHandler renders every error as the {error, details} JSON envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		resp := models.ErrorResponse{Error: appErr.Message}
		if appErr.Err != nil {
			resp.Details = appErr.Err.Error()
		}
		_ = c.JSON(appErr.Status, resp)
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, models.ErrorResponse{Error: fmt.Sprintf("%v", httpErr.Message)})
		return
	}

	_ = c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error", Details: err.Error()})
}

// SetupRoutes configures all application routes and injects dependencies.
func SetupRoutes(e *echo.Echo, db *gorm.DB, provider *identity.Provider, rdb *redis.Client, cfg *config.Config) {
	e.HTTPErrorHandler = HTTPErrorHandler

	err := db.AutoMigrate(
		&models.Profile{},
		&models.Post{},
		&models.Friendship{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	profileRepo := repositories.NewPostgresProfileRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(db)

	// --- Session exchange (authenticates against the provider itself) ---
	authGroup := e.Group("/api/v1/auth")
	authGroup.Use(middleware.RateLimit(rdb, 30, time.Minute, "auth"))
	authHandler := handlers.NewAuthHandler(provider, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.Authenticate(provider, cfg.JWTSecret))
	log.Println("Authentication middleware applied to /api/v1 group.")

	profileHandler := handlers.NewProfileHandler(profileRepo)
	profileHandler.RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	postHandler := handlers.NewPostHandler(postRepo, profileRepo)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, profileRepo)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	searchHandler := handlers.NewSearchHandler(profileRepo, friendshipRepo)
	api.GET("/users/search", searchHandler.SearchUsers, middleware.RateLimit(rdb, 60, time.Minute, "search"))
	log.Println("User search routes configured.")

	log.Println("All routes configured.")
}
