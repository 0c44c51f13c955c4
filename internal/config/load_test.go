package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 3, cfg.Card.MaxPerType)
	assert.Equal(t, 5, cfg.Card.ValidityYears)
	assert.Equal(t, "421234", cfg.Card.BIN)
	assert.Equal(t, []string{"GOLD", "SILVER", "TITANIUM", "RED", "BLUE"}, cfg.Card.ColorList())
	assert.Equal(t, "cards.issued", cfg.NATS.Subject)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("CARD_MAX_PER_TYPE", "2")
	t.Setenv("CARD_COLORS", "red, blue ,")
	t.Setenv("JWT_ACCESS_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 2, cfg.Card.MaxPerType)
	assert.Equal(t, []string{"red", "blue"}, cfg.Card.ColorList())
	assert.Equal(t, time.Hour, cfg.JWT.AccessTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown env", "ENV", "staging"},
		{"short jwt secret", "JWT_SECRET", "short"},
		{"zero card limit", "CARD_MAX_PER_TYPE", "0"},
		{"non numeric bin", "CARD_BIN", "42ab34"},
		{"unknown time zone", "CARD_TIMEZONE", "Mars/Olympus_Mons"},
		{"dev jwt secret in production", "ENV", "production"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoad_ProductionWithSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "a-real-production-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
}

func TestCardConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, CardConfig{TimeZone: "Not/AZone"}.Location())
	assert.Equal(t, time.UTC, CardConfig{TimeZone: "UTC"}.Location())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", User: "u", Password: "p", Port: 5432, SSLMode: "disable"}
	assert.Equal(t, "host=h user=u password=p port=5432 sslmode=disable", d.DSN(""))
	assert.Equal(t, "host=h user=u password=p port=5432 sslmode=disable dbname=bank", d.DSN("bank"))
}
