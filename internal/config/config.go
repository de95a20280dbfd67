// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds application configuration
type Config struct {
	// Server
	HTTPPort int

	// Storage
	StoreBackend string
	DataDir      string
	DBPath       string

	// Billing
	LateFeeRate float64

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables. A .env file in the
// working directory, if present, is loaded first; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	// Optional for local development.
	_ = godotenv.Load()

	cfg := &Config{
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendJSON)),
		DataDir:      getEnv("DATA_DIR", "./data"),
		DBPath:       getEnv("DB_PATH", "./data/rentals.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	port, err := strconv.Atoi(getEnv("HTTP_PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid HTTP_PORT %q", os.Getenv("HTTP_PORT"))
	}
	cfg.HTTPPort = port

	rate, err := strconv.ParseFloat(getEnv("LATE_FEE_RATE", "1.0"), 64)
	if err != nil || rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("invalid LATE_FEE_RATE %q: must be a finite non-negative number", os.Getenv("LATE_FEE_RATE"))
	}
	cfg.LateFeeRate = rate

	switch cfg.StoreBackend {
	case BackendJSON, BackendSQLite:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q: want %s or %s", cfg.StoreBackend, BackendJSON, BackendSQLite)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
