package config

import (
	"fmt"
	"os"
)

// Config is assembled from the environment once at startup. Required
// values have no fallbacks: a missing signing key or database URL is a
// startup error, never a silent default.
type Config struct {
	Port          string
	DatabaseURL   string
	JWTSecret     string
	AdminPassword string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          os.Getenv("PORT"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.Port == "" {
		cfg.Port = "5000"
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	return cfg, nil
}
