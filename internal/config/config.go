// Package config provides configuration for the assessment orchestrator.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the orchestrator configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Remote scoring service
	ScoringURL     string
	ScoringTimeout time.Duration

	// Database
	DatabaseURL string

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		ScoringURL:     getEnv("SCORING_URL", "http://localhost:5000"),
		ScoringTimeout: time.Duration(getEnvInt("SCORING_TIMEOUT_MS", 60000)) * time.Millisecond,
		DatabaseURL:    getEnv("DATABASE_URL", "file:traitflow.db?cache=shared&mode=rwc"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
