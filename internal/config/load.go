package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DevJWTSecret is the signing secret used when none is configured. It is
// refused in production.
const DevJWTSecret = "homebank-dev-secret"

// Config is the typed application configuration.
type Config struct {
	Env      string         `mapstructure:"env" validate:"required,oneof=development test production"`
	LogLevel string         `mapstructure:"log_level" validate:"required,oneof=trace debug info warn error"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Card     CardConfig     `mapstructure:"card"`
	NATS     NATSConfig     `mapstructure:"nats"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port" validate:"required,numeric"`
	AllowOrigins string `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host" validate:"required"`
	Port            int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	User            string        `mapstructure:"user" validate:"required"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name" validate:"required"`
	SSLMode         string        `mapstructure:"sslmode" validate:"required"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host" validate:"required"`
	Port     string        `mapstructure:"port" validate:"required,numeric"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"min=0"`
	TTL      time.Duration `mapstructure:"ttl" validate:"min=0"`
}

type JWTConfig struct {
	Secret    string        `mapstructure:"secret" validate:"required,min=8"`
	AccessTTL time.Duration `mapstructure:"access_ttl" validate:"required"`
}

// CardConfig holds the card issuance rules.
type CardConfig struct {
	MaxPerType        int    `mapstructure:"max_per_type" validate:"min=1"`
	ValidityYears     int    `mapstructure:"validity_years" validate:"min=1"`
	BIN               string `mapstructure:"bin" validate:"required,numeric,min=6,max=9"`
	Colors            string `mapstructure:"colors" validate:"required"`
	MaxNumberAttempts int    `mapstructure:"max_number_attempts" validate:"min=1"`
	TimeZone          string `mapstructure:"timezone" validate:"required,timezone"`
}

// ColorList splits the comma separated color catalog.
func (c CardConfig) ColorList() []string {
	var colors []string
	for _, part := range strings.Split(c.Colors, ",") {
		if p := strings.TrimSpace(part); p != "" {
			colors = append(colors, p)
		}
	}
	return colors
}

// Location resolves TimeZone, falling back to UTC.
func (c CardConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Token   string `mapstructure:"token"`
	Subject string `mapstructure:"subject" validate:"required"`
}

// DSN builds the postgres connection string. An empty name connects
// without selecting a database.
func (d DatabaseConfig) DSN(name string) string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s port=%d sslmode=%s",
		d.Host, d.User, d.Password, d.Port, d.SSLMode)
	if name != "" {
		dsn += " dbname=" + name
	}
	return dsn
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.allow_origins", "http://localhost:5173")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "homebank")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.max_open_conns", 100)
	v.SetDefault("db.conn_max_lifetime", "1h")
	v.SetDefault("db.conn_max_idle_time", "30m")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "24h")

	v.SetDefault("jwt.secret", DevJWTSecret)
	v.SetDefault("jwt.access_ttl", "15m")

	v.SetDefault("card.max_per_type", 3)
	v.SetDefault("card.validity_years", 5)
	v.SetDefault("card.bin", "421234")
	v.SetDefault("card.colors", "GOLD,SILVER,TITANIUM,RED,BLUE")
	v.SetDefault("card.max_number_attempts", 10)
	v.SetDefault("card.timezone", "UTC")

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.token", "")
	v.SetDefault("nats.subject", "cards.issued")
}

// Load reads configuration from the environment (after LoadEnv) and
// validates it. Environment keys are the upper-cased config paths with
// dots replaced by underscores, e.g. DB_HOST or CARD_MAX_PER_TYPE.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what most platforms inject.
	if err := v.BindEnv("server.port", "PORT", "SERVER_PORT"); err != nil {
		return nil, fmt.Errorf("binding server port: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Env == "production" && cfg.JWT.Secret == DevJWTSecret {
		return nil, errors.New("invalid config: JWT_SECRET must be set in production")
	}

	return &cfg, nil
}
