package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("STORAGE", "")
		t.Setenv("BUS", "")
		t.Setenv("TOKEN_TTL", "")
		t.Setenv("REDIS_DB", "")
		t.Setenv("MONGO_DB", "")

		cfg := Load()
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "memory", cfg.Storage)
		assert.Equal(t, "memory", cfg.Bus)
		assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
		assert.Equal(t, 0, cfg.RedisDB)
		assert.Equal(t, "postwall", cfg.MongoDB)
	})

	t.Run("Values from environment", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("STORAGE", "mongo")
		t.Setenv("BUS", "redis")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("TOKEN_TTL", "1h30m")
		t.Setenv("REDIS_DB", "3")

		cfg := Load()
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "mongo", cfg.Storage)
		assert.Equal(t, "redis", cfg.Bus)
		assert.Equal(t, "secret", cfg.JWTSecret)
		assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
		assert.Equal(t, 3, cfg.RedisDB)
	})

	t.Run("Invalid numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("TOKEN_TTL", "forever")
		t.Setenv("REDIS_DB", "first")

		cfg := Load()
		assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
		assert.Equal(t, 0, cfg.RedisDB)
	})
}

func TestValidate(t *testing.T) {
	t.Run("Missing JWT secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		err := Load().Validate()
		assert.EqualError(t, err, "environment variable JWT_SECRET is not set")
	})

	t.Run("JWT secret from environment", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")

		cfg := Load()
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, "secret", cfg.JWTSecret)
	})
}

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("POSTWALL_TEST_KEY", "")
	assert.Equal(t, "fallback", GetEnvDefault("POSTWALL_TEST_KEY", "fallback"))

	t.Setenv("POSTWALL_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnvDefault("POSTWALL_TEST_KEY", "fallback"))
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "localhost",
		DBUser:     "postgres",
		DBPassword: "pass",
		DBName:     "postwall",
		DBPort:     "5432",
		DBSSLMode:  "disable",
	}

	assert.Equal(t, "host=localhost user=postgres password=pass dbname=postwall port=5432 sslmode=disable", cfg.PostgresDSN())
}
