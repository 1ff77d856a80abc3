package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnkeeper/internal/config"
	"github.com/cory-johannsen/turnkeeper/internal/game/dice"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
	"github.com/cory-johannsen/turnkeeper/internal/notify"
	"github.com/cory-johannsen/turnkeeper/internal/seed"
	"github.com/cory-johannsen/turnkeeper/internal/server"
	"github.com/cory-johannsen/turnkeeper/internal/storage/memory"
	"github.com/cory-johannsen/turnkeeper/internal/storage/postgres"
	"github.com/cory-johannsen/turnkeeper/internal/transport/grpcapi"
	"github.com/cory-johannsen/turnkeeper/migrations"
)

// backend is the selected persistence: the initiative store, a seed target
// over the same data, and for postgres the pool to health-check.
type backend struct {
	store initiative.Store
	seed  seed.Target
	pool  *postgres.Pool
}

func provideBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, func(), error) {
	switch cfg.Server.Store {
	case config.StoreMemory:
		mem := memory.New()
		logger.Warn("using in-memory store; state is lost on exit")
		return &backend{store: mem, seed: seed.NewMemoryTarget(mem)}, func() {}, nil

	case config.StorePostgres:
		migStart := time.Now()
		if err := migrations.Up(cfg.Database.DSN()); err != nil {
			return nil, nil, err
		}
		logger.Info("schema up to date", zap.Duration("elapsed", time.Since(migStart)))

		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		b := &backend{
			store: postgres.NewInitiativeStore(pool.DB()),
			seed:  seed.NewPostgresTarget(pool.DB()),
			pool:  pool,
		}
		return b, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Server.Store)
}

func provideStore(b *backend) initiative.Store {
	return b.store
}

func provideNotifier(ctx context.Context, cfg config.Config, logger *zap.Logger) (initiative.Notifier, func(), error) {
	if !cfg.Redis.Enabled {
		return initiative.NopNotifier{}, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
	}
	pub, err := notify.NewPublisher(&notify.Config{
		Client: client,
		Logger: logger.Named("notify"),
		Prefix: cfg.Redis.ChannelPrefix,
	})
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	logger.Info("publishing turn events", zap.String("redis", cfg.Redis.Addr))
	return pub, func() { _ = client.Close() }, nil
}

func provideRoller(cfg config.Config, logger *zap.Logger) *dice.Roller {
	if cfg.Server.DiceSeed != 0 {
		logger.Warn("dice are seeded; rolls are reproducible", zap.Uint64("seed", cfg.Server.DiceSeed))
	}
	return dice.NewLoggedRoller(dice.NewSource(cfg.Server.DiceSeed), logger.Named("dice"))
}

func provideEngine(store initiative.Store, roller *dice.Roller, notifier initiative.Notifier, logger *zap.Logger) (*initiative.Engine, error) {
	return initiative.NewEngine(&initiative.Config{
		Store:    store,
		Roller:   roller,
		Notifier: notifier,
		Logger:   logger.Named("initiative"),
	})
}

func provideHandler(engine grpcapi.Engine) (*grpcapi.Handler, error) {
	return grpcapi.NewHandler(&grpcapi.HandlerConfig{Engine: engine})
}

func provideServer(handler grpcapi.InitiativeServer, logger *zap.Logger) (*grpcapi.Server, error) {
	return grpcapi.NewServer(&grpcapi.ServerConfig{Handler: handler, Logger: logger})
}

// App is the wired service.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	backend *backend
	server  *grpcapi.Server
}

func newApp(cfg config.Config, logger *zap.Logger, b *backend, srv *grpcapi.Server) *App {
	return &App{cfg: cfg, logger: logger, backend: b, server: srv}
}

// Run applies the optional seed fixture, then serves until signalled.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Server.SeedFile != "" {
		if err := a.seed(ctx); err != nil {
			return err
		}
	}

	lifecycle := server.NewLifecycle(a.logger)

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", a.cfg.GRPC.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", a.cfg.GRPC.Addr(), err)
			}
			return a.server.Serve(lis)
		},
		StopFn: func() {
			a.server.Stop(a.cfg.Server.ShutdownTimeout)
		},
	})

	if pool := a.backend.pool; pool != nil {
		done := make(chan struct{})
		lifecycle.Add("postgres", &server.FuncService{
			StartFn: func() error {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return nil
					case <-ticker.C:
						if err := pool.Health(ctx, 5*time.Second); err != nil {
							a.logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: func() { close(done) },
		})
	}

	return lifecycle.Run(ctx)
}

func (a *App) seed(ctx context.Context) error {
	f, err := seed.LoadFile(a.cfg.Server.SeedFile)
	if err != nil {
		return err
	}
	s, err := seed.NewSeeder(a.backend.seed, a.logger.Named("seed"))
	if err != nil {
		return err
	}
	res, err := s.Apply(ctx, f)
	if err != nil {
		return fmt.Errorf("seeding %s: %w", a.cfg.Server.SeedFile, err)
	}
	for code, id := range res.Rooms {
		a.logger.Info("seed room ready", zap.String("code", code), zap.Int64("room_id", id))
	}
	return nil
}
