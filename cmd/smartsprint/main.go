package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/smartsprint-dev/smartsprint/db"
	"github.com/smartsprint-dev/smartsprint/internal/auth"
	"github.com/smartsprint-dev/smartsprint/internal/config"
	"github.com/smartsprint-dev/smartsprint/internal/router"
	"github.com/smartsprint-dev/smartsprint/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	if err := logger.Init(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.L.Info("No .env file found, using process environment")
	}

	cfg, err := config.Load()

	if err != nil {
		logger.L.Fatal("Invalid configuration", zap.Error(err))
	}

	auth.Init(cfg.JWTSecret)

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		logger.L.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.MigrateDatabase(); err != nil {
		logger.L.Fatal("Failed to migrate database", zap.Error(err))
	}

	if cfg.AdminPassword != "" {
		if err := db.SeedDefaultAdmin(cfg.AdminPassword); err != nil {
			logger.L.Fatal("Failed to seed default admin", zap.Error(err))
		}
	} else {
		logger.L.Warn("ADMIN_PASSWORD not set, skipping default admin seed")
	}

	r := router.NewRouter()

	logger.L.Info("Starting server", zap.String("port", cfg.Port))

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.L.Fatal("Failed to start server", zap.Error(err))
	}
}
