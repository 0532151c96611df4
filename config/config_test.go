package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_USER", "platewise")
	t.Setenv("SECRETS_DIR", t.TempDir())

	t.Run("should load defaults for optional values", func(t *testing.T) {
		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.ServerPort)
		assert.Equal(t, "platewise", cfg.DBName)
		assert.Equal(t, "disable", cfg.DBSSLMode)
		assert.Equal(t, 2, cfg.FreePlanGenerations)
		assert.Equal(t, "https://api.nal.usda.gov/fdc/v1", cfg.USDAAPIURL)
	})

	t.Run("should honor environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("FREE_PLAN_GENERATIONS", "5")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.ServerPort)
		assert.Equal(t, 5, cfg.FreePlanGenerations)
	})

	t.Run("should reject malformed numeric values", func(t *testing.T) {
		t.Setenv("FREE_PLAN_GENERATIONS", "lots")

		_, err := LoadConfig()

		assert.Error(t, err)
	})

	t.Run("should fail without a jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := LoadConfig()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWTSecret")
	})
}

func TestGetEnvironment(t *testing.T) {
	t.Run("should detect ci", func(t *testing.T) {
		t.Setenv("CI", "true")
		assert.Equal(t, CI, GetEnvironment())
	})

	t.Run("should default to development", func(t *testing.T) {
		t.Setenv("CI", "")
		t.Setenv("ENV", "")
		assert.Equal(t, Development, GetEnvironment())
	})
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			ServerPort: "8080",
			DBHost:     "localhost",
			DBPort:     "5432",
			DBUser:     "platewise",
			DBName:     "platewise",
			JWTSecret:  "secret",
		}
	}

	t.Run("should accept a minimal non-production config", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(base()))
	})

	t.Run("should reject negative free tier quota", func(t *testing.T) {
		cfg := base()
		cfg.FreePlanGenerations = -1

		err := ValidateConfig(cfg)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "FreePlanGenerations")
	})
}
