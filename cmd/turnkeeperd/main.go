// Package main runs the turnkeeper initiative service: the engine behind a
// gRPC listener, backed by PostgreSQL or an in-memory store.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnkeeper/internal/config"
	"github.com/cory-johannsen/turnkeeper/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	storeFlag := flag.String("store", "", "override server.store: memory or postgres")
	seedFlag := flag.String("seed", "", "override server.seed_file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *storeFlag != "" {
		cfg.Server.Store = *storeFlag
	}
	if *seedFlag != "" {
		cfg.Server.SeedFile = *seedFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting turnkeeper",
		zap.String("store", cfg.Server.Store),
		zap.String("grpc_addr", cfg.GRPC.Addr()),
		zap.Bool("redis", cfg.Redis.Enabled),
	)

	ctx := context.Background()
	app, cleanup, err := initializeApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("wiring application", zap.Error(err))
	}
	defer cleanup()

	logger.Info("turnkeeper initialized", zap.Duration("startup", time.Since(start)))

	if err := app.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}
