package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 720*time.Hour, cfg.App.TokenTTL)
	assert.Equal(t, 0, cfg.Dares.MaxRolls)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.IsProduction())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/dice.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("DARE_MAX_ROLLS", "3")
	t.Setenv("APP_ENV", "production")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/dice.db", cfg.Database.SQLitePath)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.App.TokenTTL)
	assert.Equal(t, 3, cfg.Dares.MaxRolls)
	assert.True(t, cfg.IsProduction())
}

func TestParseValidation(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Parse()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("DB_DRIVER", "mysql")
		_, err := Parse()
		assert.ErrorContains(t, err, "DB_DRIVER")
	})

	t.Run("negative roll cap", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("DARE_MAX_ROLLS", "-1")
		_, err := Parse()
		assert.ErrorContains(t, err, "DARE_MAX_ROLLS")
	})
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "n", SSLMode: "require",
	}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=require", cfg.GetDSN())
}
