// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Port         string // HTTP listen port
	DatabasePath string // SQLite database file path
	JWTSecret    string // session token signing secret
	BcryptCost   int    // bcrypt work factor for stored secrets
	CookieSecure bool   // whether the auth cookie requires HTTPS
}

// Load reads configuration from the environment, applying defaults and
// validating the security-sensitive settings.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "bank-ledger.db"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		BcryptCost:   12,
		// Default to secure cookies; disable only for local development.
		CookieSecure: os.Getenv("COOKIE_SECURE") != "false",
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		if cost < 4 || cost > 14 {
			return nil, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", cost)
		}
		cfg.BcryptCost = cost
	}

	return cfg, nil
}

// String masks the secret so the config can be logged safely.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, DB: %s, JWTSecret: ***, BcryptCost: %d, CookieSecure: %t}",
		c.Port, c.DatabasePath, c.BcryptCost, c.CookieSecure)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
