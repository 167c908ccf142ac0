package health

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/medapp-server/internal/logger"
	"github.com/dtroode/medapp-server/internal/model"
)

// ServiceName is the health service name reported for the HTTP API.
const ServiceName = "medapp.api"

const pingTimeout = 2 * time.Second

// Checker keeps the gRPC health status in line with the backing stores.
type Checker struct {
	server   *health.Server
	pingers  map[string]model.Pinger
	interval time.Duration
	logger   *logger.Logger
}

// NewChecker returns a checker over the named stores. Until the first
// check completes, every service reports NOT_SERVING.
func NewChecker(server *health.Server, pingers map[string]model.Pinger, interval time.Duration, logger *logger.Logger) *Checker {
	server.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	server.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Checker{
		server:   server,
		pingers:  pingers,
		interval: interval,
		logger:   logger,
	}
}

// Check pings every store and updates the status. The service is SERVING
// only when all stores respond.
func (c *Checker) Check(ctx context.Context) bool {
	healthy := true
	for name, p := range c.pingers {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			healthy = false
			c.logger.Warn("Health checker: store unreachable",
				"store", name,
				"error", err.Error())
		}
	}

	status := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)
	return healthy
}

// Run checks immediately and then on every tick until ctx is done, at which
// point the status is switched off.
func (c *Checker) Run(ctx context.Context) {
	c.Check(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}
