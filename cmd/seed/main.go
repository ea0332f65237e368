package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ledgerpay/walletd/internal/config"
	"github.com/ledgerpay/walletd/internal/infra"
	"github.com/ledgerpay/walletd/internal/logging"
	"github.com/ledgerpay/walletd/internal/user"
)

// Seeds a handful of demo users for local development.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL must be set to seed users")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := user.NewService(user.NewPostgresRepository(db))

	demo := []user.RegisterInput{
		{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Anderson", Password: "password123"},
		{Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Brown", Password: "password123"},
		{Username: "carol", Email: "carol@example.com", FirstName: "Carol", LastName: "Clark", Password: "password123"},
	}

	for _, input := range demo {
		u, err := svc.Register(ctx, input)
		if err != nil {
			if errors.Is(err, user.ErrUsernameTaken) {
				logger.Info("user already exists", "username", input.Username)
				continue
			}
			logger.Error("seed user", "username", input.Username, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded user", "id", u.ID, "username", u.Username)
	}
}
