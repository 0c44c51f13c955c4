// Package repositories provides data access layer implementations.
// It handles all database operations and data persistence logic.
package repositories

import (
	"fmt"
	"time"

	"homebank/internal/config"
	"homebank/internal/models"
	"homebank/internal/repositories/cache"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance used across the application.
var DB *gorm.DB
var CacheService *cache.CacheService

// InitDB initializes the database connection.
// It creates the database when missing, sets up the connection pool,
// performs migrations and connects the redis cache.
func InitDB(cfg *config.Config) error {
	if err := initPostgres(cfg.Database); err != nil {
		return err
	}

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	CacheService = cache.NewCacheService(redisClient, cfg.Redis.TTL)

	if err := DB.AutoMigrate(
		&models.Customer{},
		&models.Card{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

func initPostgres(cfg config.DatabaseConfig) error {
	if err := ensureDatabase(cfg); err != nil {
		return err
	}

	gormLogger := logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn, // Only log warnings and errors
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN(cfg.Name)), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	DB = db
	log.WithField("database", cfg.Name).Info("PostgreSQL connected")
	return nil
}

// ensureDatabase connects without a database name and creates the
// configured database if it does not exist yet.
func ensureDatabase(cfg config.DatabaseConfig) error {
	initDB, err := gorm.Open(postgres.Open(cfg.DSN("postgres")), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	sqlDB, err := initDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	var exists bool
	if err := initDB.Raw("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = ?)", cfg.Name).
		Scan(&exists).Error; err != nil {
		return fmt.Errorf("failed to check database: %w", err)
	}
	if exists {
		return nil
	}

	if err := initDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(cfg.Name)).Error; err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.Name, err)
	}
	log.WithField("database", cfg.Name).Info("database created")
	return nil
}

// Close releases the database and redis connections.
func Close() {
	if DB != nil {
		if sqlDB, err := DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.WithError(err).Warn("failed to close database connection")
			}
		}
	}

	if CacheService != nil {
		if err := CacheService.Close(); err != nil {
			log.WithError(err).Warn("failed to close redis connection")
		}
	}
}
