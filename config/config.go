package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// External collaborators
	USDAAPIKey            string
	USDAAPIURL            string
	LLMAPIKey             string
	LLMAPIURL             string
	LLMModel              string
	PurchaseWebhookSecret string

	// Email (SMTP)
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// Free tier quota for plan generations per week
	FreePlanGenerations int
}

// LoadConfig creates a new Config instance from environment variables, with
// secret-file fallback for credentials (Docker secrets in production).
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: envOr("SERVER_PORT", "8080"),
		ServerHost: envOr("SERVER_HOST", "0.0.0.0"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOrSecret("DB_USER", "db_user"),
		DBPassword: envOrSecret("DB_PASSWORD", "db_password"),
		DBName:     envOr("DB_NAME", "platewise"),
		DBSSLMode:  envOr("DB_SSL_MODE", "disable"),

		RedisHost:     envOr("REDIS_HOST", "localhost"),
		RedisPort:     envOr("REDIS_PORT", "6379"),
		RedisPassword: envOrSecret("REDIS_PASSWORD", "redis_password"),
		RedisURL:      os.Getenv("REDIS_URL"),

		JWTSecret: envOrSecret("JWT_SECRET", "jwt_secret"),

		USDAAPIKey: envOrSecret("USDA_API_KEY", "usda_api_key"),
		USDAAPIURL: envOr("USDA_API_URL", "https://api.nal.usda.gov/fdc/v1"),
		LLMAPIKey:  envOrSecret("ANTHROPIC_API_KEY", "anthropic_api_key"),
		LLMAPIURL:  envOr("ANTHROPIC_API_URL", "https://api.anthropic.com/v1/messages"),
		LLMModel:   envOr("LLM_MODEL", "claude-sonnet-4-20250514"),

		PurchaseWebhookSecret: envOrSecret("PURCHASE_WEBHOOK_SECRET", "purchase_webhook_secret"),

		SMTPHost:     envOrSecret("SMTP_HOST", "smtp_host"),
		SMTPPort:     envOr("SMTP_PORT", "587"),
		SMTPUsername: envOrSecret("SMTP_USERNAME", "smtp_username"),
		SMTPPassword: envOrSecret("SMTP_PASSWORD", "smtp_password"),
		EmailFrom:    envOr("EMAIL_FROM", "hello@platewise.app"),

		FreePlanGenerations: 2,
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.RedisDB = db
	}
	if v := os.Getenv("FREE_PLAN_GENERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FREE_PLAN_GENERATIONS %q: %w", v, err)
		}
		cfg.FreePlanGenerations = n
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrSecret reads an environment variable, falling back to a Docker secret
// file of the given name under SECRETS_DIR.
func envOrSecret(key, secretName string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
