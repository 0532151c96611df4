package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that every value the server cannot run without is
// present. External API keys are only mandatory in production so local and
// test runs can stub those collaborators.
func ValidateConfig(cfg *Config) error {
	var errs []string

	required := map[string]string{
		"ServerPort": cfg.ServerPort,
		"DBHost":     cfg.DBHost,
		"DBPort":     cfg.DBPort,
		"DBUser":     cfg.DBUser,
		"DBName":     cfg.DBName,
		"JWTSecret":  cfg.JWTSecret,
	}
	for field, value := range required {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"}.Error())
		}
	}

	if IsProduction() {
		prodRequired := map[string]string{
			"DBPassword":            cfg.DBPassword,
			"USDAAPIKey":            cfg.USDAAPIKey,
			"LLMAPIKey":             cfg.LLMAPIKey,
			"PurchaseWebhookSecret": cfg.PurchaseWebhookSecret,
		}
		for field, value := range prodRequired {
			if value == "" {
				errs = append(errs, ValidationError{Field: field, Message: "is required in production"}.Error())
			}
		}
	}

	if cfg.FreePlanGenerations < 0 {
		errs = append(errs, ValidationError{Field: "FreePlanGenerations", Message: "must not be negative"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
