// Package config loads the widget's runtime configuration from the
// environment. The embedding surface supplies these; the core never
// mutates them.
package config

import (
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	Env      string
	LogLevel string
	LogFile  string

	// Backend contract surface.
	APIBase    string
	BusinessID string
	SheetID    string

	// Session behavior.
	RequestTimeout time.Duration
	EndDelay       time.Duration

	// Dev server.
	Port string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Env:            getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("CONCIERGE_LOG_FILE", ""),
		APIBase:        getEnv("CONCIERGE_API_BASE", "http://localhost:8080"),
		BusinessID:     getEnv("CONCIERGE_BUSINESS_ID", ""),
		SheetID:        getEnv("CONCIERGE_SHEET_ID", ""),
		RequestTimeout: getEnvAsDuration("CONCIERGE_REQUEST_TIMEOUT", 60*time.Second),
		EndDelay:       getEnvAsDuration("CONCIERGE_END_DELAY", 1200*time.Millisecond),
		Port:           getEnv("PORT", "8080"),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
