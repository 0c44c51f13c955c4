// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"context"
	"fmt"

	"homebank/internal/config"
	"homebank/internal/handlers"
	"homebank/internal/middleware"
	"homebank/internal/models"
	"homebank/internal/repositories"
	"homebank/internal/repositories/cache"
	"homebank/internal/services/auth"
	"homebank/internal/services/card"
	"homebank/internal/services/customer"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// cacheService and events may be nil.
func SetupRoutes(app *fiber.App, db *gorm.DB, cacheService *cache.CacheService, cfg *config.Config, events card.EventPublisher) error {
	// Initialize repositories
	customerRepo := repositories.NewCustomerRepository(db, cacheService)
	cardRepo := repositories.NewCardRepository(db, cacheService)

	numbers, err := card.NewRandomGenerator(cfg.Card.BIN)
	if err != nil {
		return fmt.Errorf("invalid card BIN: %w", err)
	}

	// Initialize services in correct order
	authService := auth.NewService(customerRepo, cfg.JWT.Secret, cfg.JWT.AccessTTL)
	customerService := customer.NewService(customerRepo)
	cardService := card.NewService(
		cardRepo,
		customerService,
		numbers,
		events,
		card.Config{
			MaxPerType:        cfg.Card.MaxPerType,
			ValidityYears:     cfg.Card.ValidityYears,
			MaxNumberAttempts: cfg.Card.MaxNumberAttempts,
			Colors:            models.NewColorCatalog(cfg.Card.ColorList()...),
			Location:          cfg.Card.Location(),
		},
		&card.NoopMetricsCollector{},
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	cardHandler := handlers.NewCardHandler(cardService)
	healthHandler := handlers.NewHealthHandler(healthChecks(db, cacheService))
	authMiddleware := middleware.NewAuthMiddleware(authService)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Get("/health", healthHandler.HealthCheck)
	api.Post("/login", authHandler.Login)

	// Customer routes with authentication
	clients := api.Group("/clients", authMiddleware.Handler)
	clients.Get("/current/cards", cardHandler.GetCards)
	clients.Post("/current/cards", cardHandler.CreateCard)

	return nil
}

func healthChecks(db *gorm.DB, cacheService *cache.CacheService) map[string]handlers.Check {
	checks := map[string]handlers.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if cacheService != nil {
		checks["redis"] = cacheService.HealthCheck
	}
	return checks
}
