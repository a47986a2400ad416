// Package main runs the SchoolHub HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/dharsanguruparan/SchoolHub/internal/api"
	"github.com/dharsanguruparan/SchoolHub/internal/blob"
	"github.com/dharsanguruparan/SchoolHub/internal/config"
	"github.com/dharsanguruparan/SchoolHub/internal/queue"
	"github.com/dharsanguruparan/SchoolHub/internal/repository"
	"github.com/dharsanguruparan/SchoolHub/internal/schools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. Every resource it opens is closed before
// it returns.
func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	repo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer closeRepo()

	blobs, err := blob.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init blob store: %w", err)
	}

	var cleaner schools.Cleaner
	if cfg.CleanupMode == config.CleanupQueue {
		client := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		cleaner = queue.NewCleaner(client)
	}
	svc := schools.New(repo, blobs, cleaner, logger)

	logger.WithFields(logrus.Fields{
		"db_driver": cfg.DBDriver,
		"blobs":     cfg.BlobStrategy,
		"cleanup":   cfg.CleanupMode,
	}).Info("schoolhub starting")
	return api.New(cfg, svc, blobs, logger).Run(ctx)
}
