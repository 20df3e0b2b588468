package infrastructure

import (
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer exposes the standard gRPC health service for liveness and readiness probes.
// It reports NOT_SERVING until SetReady(true) is called.
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
}

// NewHealthServer binds address and registers the health service on a new gRPC server.
func NewHealthServer(address string) (*HealthServer, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	return newHealthServer(listener), nil
}

func newHealthServer(listener net.Listener) *HealthServer {
	server := grpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	return &HealthServer{
		server:   server,
		health:   healthServer,
		listener: listener,
	}
}

// Addr returns the bound listener address.
func (h *HealthServer) Addr() net.Addr {
	return h.listener.Addr()
}

// Serve blocks until Stop is called.
func (h *HealthServer) Serve() error {
	if err := h.server.Serve(h.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("health server stopped unexpectedly: %w", err)
	}
	return nil
}

// SetReady flips the overall serving status.
func (h *HealthServer) SetReady(ready bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ready {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
}

// Stop marks the service as shutting down and stops the gRPC server.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
