// Package config loads and validates application configuration from
// environment variables and the optional certification policy file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// APIKeys are the accepted X-API-KEY values. Empty disables the check.
	APIKeys []string

	// PolicyFile is an optional YAML file overriding the certification policy.
	PolicyFile string

	// RefreshInterval is how often the reference snapshot is reloaded even
	// without change notifications. Defaults to 15m.
	RefreshInterval time.Duration

	// RateLimitRPS is the sustained request rate allowed per client IP.
	// Zero disables rate limiting. Defaults to 10.
	RateLimitRPS float64

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set, or the
// first variable that cannot be parsed.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		APIKeys:     splitCSV(os.Getenv("API_KEYS")),
		PolicyFile:  os.Getenv("POLICY_FILE"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.RefreshInterval, err = time.ParseDuration(getEnv("REFRESH_INTERVAL", "15m")); err != nil || cfg.RefreshInterval <= 0 {
		return Config{}, fmt.Errorf("invalid REFRESH_INTERVAL %q", os.Getenv("REFRESH_INTERVAL"))
	}
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "10"), 64); err != nil || cfg.RateLimitRPS < 0 {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_RPS %q", os.Getenv("RATE_LIMIT_RPS"))
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", "1048576"), 10, 64); err != nil || cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("invalid MAX_BODY_BYTES %q", os.Getenv("MAX_BODY_BYTES"))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
