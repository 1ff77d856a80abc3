//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/turnkeeper/internal/config"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
	"github.com/cory-johannsen/turnkeeper/internal/transport/grpcapi"
)

func initializeApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		provideBackend,
		provideStore,
		provideNotifier,
		provideRoller,
		provideEngine,
		wire.Bind(new(grpcapi.Engine), new(*initiative.Engine)),
		provideHandler,
		wire.Bind(new(grpcapi.InitiativeServer), new(*grpcapi.Handler)),
		provideServer,
		newApp,
	)
	return nil, nil, nil
}
