// Package config loads the engine's configuration from environment
// variables, with .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	// DBPath is the sqlite database file path.
	DBPath string
	// ListenAddr is the HTTP listen address.
	ListenAddr string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// JWTSecret signs owner session tokens.
	JWTSecret string
	// OwnerPasswordHash is the bcrypt hash of the owner's password.
	OwnerPasswordHash string
	// TokenDuration is how long a session token remains valid.
	TokenDuration time.Duration

	// DuplicateWindow is the trailing window for duplicate detection.
	DuplicateWindow time.Duration
	// DuplicateFailClosed makes detector query errors fail the probe
	// instead of being treated as "no duplicate".
	DuplicateFailClosed bool

	// AccountCacheTTL bounds how long resolved accounts stay cached.
	AccountCacheTTL time.Duration
}

// Load loads configuration from environment variables. A .env file in the
// current directory is loaded first if present; an explicit path can be
// given instead.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	tokenHours, err := parseIntEnv("TOKEN_DURATION_HOURS", 24)
	if err != nil {
		return nil, err
	}
	windowMinutes, err := parseIntEnv("DUPLICATE_WINDOW_MINUTES", 5)
	if err != nil {
		return nil, err
	}
	cacheSeconds, err := parseIntEnv("ACCOUNT_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBPath:              getEnvOrDefault("DB_PATH", "./data/ledgerly.db"),
		ListenAddr:          getEnvOrDefault("LISTEN_ADDR", ":8080"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		OwnerPasswordHash:   os.Getenv("OWNER_PASSWORD_HASH"),
		TokenDuration:       time.Duration(tokenHours) * time.Hour,
		DuplicateWindow:     time.Duration(windowMinutes) * time.Minute,
		DuplicateFailClosed: os.Getenv("DUPLICATE_FAIL_CLOSED") == "true",
		AccountCacheTTL:     time.Duration(cacheSeconds) * time.Second,
	}

	return cfg, nil
}

// Validate checks that the fields with no usable default are set.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.OwnerPasswordHash == "" {
		missing = append(missing, "OWNER_PASSWORD_HASH")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}
	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an integer from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}
