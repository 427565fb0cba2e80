package health

import (
	"context"
	"sync/atomic"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/zyneth-auth/internal/logger"
)

// ServiceName is the health service name reported besides the overall "" entry.
const ServiceName = "zyneth.auth.v1.Auth"

const pingTimeout = 2 * time.Second

// DefaultInterval is used when a non-positive interval is given.
const DefaultInterval = 15 * time.Second

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor polls the database and publishes readiness to the gRPC health service.
type Monitor struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *logger.Logger
	ready    atomic.Bool
}

func NewMonitor(server *health.Server, pinger Pinger, interval time.Duration, logger *logger.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		server:   server,
		pinger:   pinger,
		interval: interval,
		logger:   logger,
	}
}

// Ready reports the result of the last check.
func (m *Monitor) Ready() bool {
	return m.ready.Load()
}

// Check pings once and updates the published status.
func (m *Monitor) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err := m.pinger.Ping(pingCtx)
	ready := err == nil

	if prev := m.ready.Swap(ready); prev != ready || !ready {
		if ready {
			m.logger.Info("Health monitor: database reachable")
		} else {
			m.logger.Warn("Health monitor: database unreachable",
				"error", err.Error())
		}
	}

	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	m.server.SetServingStatus("", status)
	m.server.SetServingStatus(ServiceName, status)

	return ready
}

// Run checks immediately and then on every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.server.Shutdown()
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
