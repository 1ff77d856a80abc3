package grpcapi

import (
	"context"
	"net"
	"time"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/observability"
)

// ServerConfig holds the Server's dependencies.
type ServerConfig struct {
	Handler InitiativeServer
	Logger  *zap.Logger
}

// Validate checks required dependencies.
func (c *ServerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Handler == nil {
		return errors.InvalidArgument("handler cannot be nil")
	}
	if c.Logger == nil {
		return errors.InvalidArgument("logger cannot be nil")
	}
	return nil
}

// Server is a gRPC server carrying the initiative and health services.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// NewServer builds a Server with logging, panic recovery and tracing interceptors.
func NewServer(cfg *ServerConfig) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger

	recoverPanic := grpc_recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
		logger.Error("panic in grpc handler", zap.Any("panic", p), zap.Stack("stack"))
		return status.Error(codes.Internal, "internal error")
	})
	logOpts := []grpc_logging.Option{grpc_logging.WithLogOnEvents(grpc_logging.FinishCall)}
	grpcLogger := observability.InterceptorLogger(logger.Named("grpc"))

	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpcLogger, logOpts...),
			grpc_recovery.UnaryServerInterceptor(recoverPanic),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpcLogger, logOpts...),
			grpc_recovery.StreamServerInterceptor(recoverPanic),
		),
	)

	RegisterInitiativeServer(srv, cfg.Handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	return &Server{grpc: srv, health: healthServer, logger: logger}, nil
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
	if err := s.grpc.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// Stop marks the services not serving and drains in-flight calls, forcing
// the stop after timeout.
func (s *Server) Stop(timeout time.Duration) {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.logger.Info("grpc server stopped gracefully")
	case <-time.After(timeout):
		s.logger.Warn("graceful shutdown timeout exceeded, forcing stop", zap.Duration("timeout", timeout))
		s.grpc.Stop()
	}
}
