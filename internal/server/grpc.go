package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"ecoharmony-park/backend/internal/health"
	"ecoharmony-park/backend/internal/server/interceptors"
)

// Deps holds the services exposed over gRPC.
type Deps struct {
	// Health serves grpc.health.v1. Required.
	Health *health.Monitor
	// Reflection registers the reflection service (for grpcurl). Enable outside production only.
	Reflection bool
	// QuietMethods are full method names not logged by the request logger (e.g. Health/Check probes).
	QuietMethods map[string]bool
}

// NewGRPCServer builds the gRPC server with tracing and request logging, and registers the
// services from deps.
func NewGRPCServer(deps Deps) *grpc.Server {
	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.RecoverUnary(),
			interceptors.LoggingUnary(deps.QuietMethods),
		),
	)
	RegisterServices(s, deps)
	if deps.Reflection {
		reflection.Register(s)
	}
	return s
}

// RegisterServices registers the gRPC services with s.
//
//   - grpc.health.v1.Health → internal/health Monitor
func RegisterServices(s grpc.ServiceRegistrar, deps Deps) {
	healthpb.RegisterHealthServer(s, deps.Health.Server())
}

// DefaultQuietMethods skips health probes in the request log.
func DefaultQuietMethods() map[string]bool {
	return map[string]bool{
		healthpb.Health_Check_FullMethodName: true,
		healthpb.Health_Watch_FullMethodName: true,
	}
}
