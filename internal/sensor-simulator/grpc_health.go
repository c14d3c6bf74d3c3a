package sensor_simulator

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServiceName is the service name reported by the gRPC health server.
const HealthServiceName = "farmtwin.SensorSimulator"

// NewGrpcHealthServer builds a gRPC server exposing grpc.health.v1 only.
func NewGrpcHealthServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(HealthServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return srv, hs
}

// WatchReadiness mirrors check into the health status every interval until ctx is done,
// then marks everything NOT_SERVING.
func WatchReadiness(ctx context.Context, hs *health.Server, check func(context.Context) error,
	interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	update := func() {
		cctx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		status := healthpb.HealthCheckResponse_SERVING
		if err := check(cctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			logger.Warn("readiness check failed", zap.Error(err))
		}
		hs.SetServingStatus(HealthServiceName, status)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	update()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
			update()
		}
	}
}
