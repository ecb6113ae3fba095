// Package config builds the process configuration from the environment.
// Everything tunable lives in one explicit struct injected at startup;
// nothing reads the environment after Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config holds all runtime settings for the server.
type Config struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string

	// DBPath is the SQLite database file path.
	DBPath string

	// JWTSecret signs access and refresh tokens. Required.
	JWTSecret string

	// AccessTokenTTL is how long access tokens remain valid.
	AccessTokenTTL time.Duration

	// RefreshTokenTTL is how long refresh tokens remain valid.
	RefreshTokenTTL time.Duration
}

// Load reads configuration from the environment, applying defaults for
// everything except the JWT secret.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:      getEnv("ADDR", ":8080"),
		DBPath:    getEnv("DB_PATH", "./data/bookshelf.db"),
		JWTSecret: os.Getenv("JWT_SECRET"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getDuration("REFRESH_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
