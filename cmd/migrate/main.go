package main

import (
	"context"
	"log/slog"
	"os"

	auctionmigrations "github.com/ghuser/auctionhouse/migrations/auction"
	notificationmigrations "github.com/ghuser/auctionhouse/migrations/notification"
	"github.com/ghuser/auctionhouse/pkg/config"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg)

	if err := migrator.Run(context.Background(), cfg.DatabaseURL, log,
		auctionmigrations.Module,
		notificationmigrations.Module,
	); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")
}
