package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"carmarket-rental-backend/internal/api/grpc/interceptor"
	"carmarket-rental-backend/internal/logger"
)

// ServiceName is the health service name reported next to the overall "".
const ServiceName = "carmarket.rental"

const defaultProbeInterval = 15 * time.Second

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer publishes grpc.health.v1 statuses driven by periodic database
// pings.
type HealthServer struct {
	health   *health.Server
	db       Pinger
	interval time.Duration
}

func NewHealthServer(db Pinger, interval time.Duration) *HealthServer {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &HealthServer{
		health:   health.NewServer(),
		db:       db,
		interval: interval,
	}
}

// NewServer returns a gRPC server exposing the health service and reflection.
func NewServer(hs *HealthServer) *grpc.Server {
	s := grpc.NewServer(
		grpc.UnaryInterceptor(interceptor.NewLoggingInterceptor().Unary()),
	)
	healthpb.RegisterHealthServer(s, hs.health)

	// Register reflection service for grpcurl
	reflection.Register(s)
	return s
}

// Probe pings the database once and updates the published status.
func (h *HealthServer) Probe(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.db.Ping(ctx); err != nil {
		logger.Warn("Database health probe failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Run probes until ctx is done, then marks every service NOT_SERVING.
func (h *HealthServer) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return nil
		case <-ticker.C:
			h.Probe(ctx)
		}
	}
}
