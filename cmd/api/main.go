package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justCallMeJeg/eboto/internal/config"
	"github.com/justCallMeJeg/eboto/internal/logger"
	"github.com/justCallMeJeg/eboto/internal/media"
	"github.com/justCallMeJeg/eboto/internal/realtime"
	"github.com/justCallMeJeg/eboto/internal/server"
	"github.com/justCallMeJeg/eboto/internal/storage/postgres"
)

func main() {
	cfg := config.Load()

	logLevel := "info"
	if cfg.Server.GinMode == "debug" {
		logLevel = "debug"
	}
	logger.Initialize(logLevel)
	log := logger.Get()

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	if err := postgres.AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	var mediaStore *media.Store
	if cfg.MediaEnabled() {
		mediaStore, err = media.NewStore(cfg)
		if err != nil {
			log.Error("Failed to connect to object store", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mediaStore.EnsureBucket(ctx); err != nil {
			cancel()
			log.Error("Failed to prepare media bucket", "error", err)
			os.Exit(1)
		}
		cancel()
	} else {
		log.Warn("No object store configured; portrait uploads are disabled")
	}

	hub := realtime.NewHub()
	srv := server.New(cfg, db, hub, mediaStore)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-quit:
		log.Info("Received shutdown signal", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}
