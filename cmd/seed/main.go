// Package main applies a YAML seed fixture of accounts, characters and rooms
// to the turnkeeper database. Re-running it is safe.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnkeeper/internal/config"
	"github.com/cory-johannsen/turnkeeper/internal/observability"
	"github.com/cory-johannsen/turnkeeper/internal/seed"
	"github.com/cory-johannsen/turnkeeper/internal/storage/postgres"
	"github.com/cory-johannsen/turnkeeper/migrations"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	fixturePath := flag.String("fixture", "configs/seed.yaml", "path to seed fixture")
	migrate := flag.Bool("migrate", true, "apply pending migrations first")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	fixture, err := seed.LoadFile(*fixturePath)
	if err != nil {
		logger.Fatal("loading fixture", zap.Error(err))
	}

	if *migrate {
		if err := migrations.Up(cfg.Database.DSN()); err != nil {
			logger.Fatal("migrating", zap.Error(err))
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	seeder, err := seed.NewSeeder(seed.NewPostgresTarget(pool.DB()), logger)
	if err != nil {
		logger.Fatal("creating seeder", zap.Error(err))
	}
	res, err := seeder.Apply(ctx, fixture)
	if err != nil {
		logger.Fatal("seeding", zap.Error(err))
	}

	fmt.Printf("accounts created:   %d\n", res.AccountsCreated)
	fmt.Printf("characters created: %d\n", res.CharactersCreated)
	fmt.Printf("rooms created:      %d\n", res.RoomsCreated)
	fmt.Printf("already present:    %d\n", res.Existing)

	codes := make([]string, 0, len(res.Rooms))
	for code := range res.Rooms {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Printf("room %-10s id=%d\n", code, res.Rooms[code])
	}
	fmt.Printf("seed complete in %s\n", time.Since(start).Round(time.Millisecond))
}
