package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/dharsanguruparan/SchoolHub/internal/blob"
	"github.com/dharsanguruparan/SchoolHub/internal/config"
	"github.com/dharsanguruparan/SchoolHub/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg)
	if cfg.RedisAddr == "" {
		logger.Fatal("worker requires SCHOOLHUB_REDIS_ADDR")
	}

	blobs, err := blob.New(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("init blob store")
	}

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: 2,
		Logger:      logger,
	})
	processor := worker.NewProcessor(blobs, logger)
	mux := processor.Handler()

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	logger.WithField("redis", cfg.RedisAddr).Info("cleanup worker starting")
	if err := server.Run(mux); err != nil {
		logger.WithError(err).Error("worker stopped")
		os.Exit(1)
	}
}
