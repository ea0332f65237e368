package main

import (
	"fmt"
	"os"

	"github.com/ledgerpay/walletd/internal/config"
	"github.com/ledgerpay/walletd/internal/logging"
	"github.com/ledgerpay/walletd/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL must be set to run migrations")
		os.Exit(1)
	}

	if err := storage.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	logger.Info("migrations applied")
}
