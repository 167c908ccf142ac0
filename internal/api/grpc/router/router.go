package router

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/medapp-server/internal/api/grpc/middleware"
	"github.com/dtroode/medapp-server/internal/logger"
)

// Router builds the operational gRPC server: health checks and reflection.
type Router struct {
	health *health.Server
	logger *logger.Logger
}

func New(healthServer *health.Server, logger *logger.Logger) *Router {
	return &Router{health: healthServer, logger: logger}
}

// Register returns a gRPC server with the health service and reflection
// registered behind the logging and recovery interceptors.
func (r *Router) Register() *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(middleware.UnaryInterceptors(r.logger)...),
		grpc.ChainStreamInterceptor(middleware.StreamInterceptors(r.logger)...),
	)

	healthpb.RegisterHealthServer(s, r.health)
	reflection.Register(s)

	return s
}
