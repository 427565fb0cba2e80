package router

import (
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/zyneth-auth/internal/api/grpc/middleware"
	"github.com/dtroode/zyneth-auth/internal/logger"
)

// Router assembles the gRPC server exposing health and reflection.
type Router struct {
	healthServer *health.Server
	logger       *logger.Logger
}

func New(healthServer *health.Server, logger *logger.Logger) *Router {
	return &Router{
		healthServer: healthServer,
		logger:       logger,
	}
}

// Register builds the gRPC server with recovery and logging interceptors.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandlerContext(logging.Recovered)),
			logging.HandleGRPC,
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recovery.WithRecoveryHandlerContext(logging.Recovered)),
		),
	)

	healthpb.RegisterHealthServer(s, r.healthServer)
	reflection.Register(s)

	return s
}
