// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"homebank/internal/broker"
	"homebank/internal/config"
	"homebank/internal/repositories"
	"homebank/internal/routes"
	"homebank/internal/services/card"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Initializes database and cache connections
// - Connects the event broker when configured
// - Configures routes
// - Starts the HTTP server
func main() {
	// Load environment variables
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	setupLogging(cfg)

	// Initialize databases (PostgreSQL + Redis)
	if err := repositories.InitDB(cfg); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer repositories.Close()

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("failed to get database instance: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	log.Info("connected to database with connection pooling")

	// Periodic check of connection pool stats
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			fields := log.Fields{
				"open":          stats.OpenConnections,
				"idle":          stats.Idle,
				"in_use":        stats.InUse,
				"wait_count":    stats.WaitCount,
				"wait_duration": stats.WaitDuration,
			}
			if repositories.CacheService != nil {
				redisStats := repositories.CacheService.GetStats()
				fields["redis_hits"] = redisStats.Hits
				fields["redis_misses"] = redisStats.Misses
				fields["redis_total_conns"] = redisStats.TotalConns
			}
			log.WithFields(fields).Debug("connection pool stats")
		}
	}()

	var events card.EventPublisher
	if cfg.NATS.URL != "" {
		n, err := broker.Connect(cfg.NATS)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer n.Close()
		events = broker.NewCardPublisher(n.Conn, cfg.NATS.Subject)
		log.WithField("subject", cfg.NATS.Subject).Info("publishing card events to nats")
	} else {
		log.Info("NATS_URL not set, card events are not published")
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "homebank",
	})

	app.Use(recover.New())

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD",
		AllowCredentials: true,
	}))

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/login", limiter.New(limiter.Config{
		Max:        config.GetIntEnv("LOGIN_RATE_LIMIT", 5),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	// Routes
	if err := routes.SetupRoutes(app, repositories.DB, repositories.CacheService, cfg, events); err != nil {
		log.Fatalf("failed to set up routes: %v", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Warn("server shutdown failed")
		}
	}()

	// Start server
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Errorf("server stopped: %v", err)
	}
}

func setupLogging(cfg *config.Config) {
	if config.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
