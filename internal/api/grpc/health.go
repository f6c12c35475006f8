package grpc

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/huyhqq/Student-Club-Management-System/internal/api/grpc/interceptor"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
)

// ServiceName is the health-checked service reported alongside the overall ("") status.
const ServiceName = "clubs.lifecycle"

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsServer is the operator-facing gRPC endpoint: standard health checking plus reflection for grpcurl.
type OpsServer struct {
	server   *grpc.Server
	health   *health.Server
	pinger   Pinger
	interval time.Duration
}

func NewOpsServer(pinger Pinger, interval time.Duration) *OpsServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptor.Recovery(), interceptor.Logging()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)

	// Register reflection service for grpcurl
	reflection.Register(s)

	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &OpsServer{server: s, health: hs, pinger: pinger, interval: interval}
}

func (o *OpsServer) Serve(lis net.Listener) error {
	logger.Info("Ops gRPC server listening", "address", lis.Addr().String())
	return o.server.Serve(lis)
}

// Watch pings the store every interval and flips the serving status until ctx is done.
func (o *OpsServer) Watch(ctx context.Context) {
	o.check(ctx)
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.check(ctx)
		}
	}
}

func (o *OpsServer) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, o.interval/2)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := o.pinger.Ping(pingCtx); err != nil {
		logger.Warn("Store ping failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	o.health.SetServingStatus("", status)
	o.health.SetServingStatus(ServiceName, status)
}

// Stop marks every service NOT_SERVING and drains in-flight RPCs.
func (o *OpsServer) Stop() {
	o.health.Shutdown()
	o.server.GracefulStop()
}
