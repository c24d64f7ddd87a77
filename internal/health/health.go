// Package health reports readiness over the standard gRPC health protocol and to HTTP probes.
// Readiness follows the dependency checks: any failing check marks the service NOT_SERVING.
package health

import (
	"context"
	"log"
	"sync"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name of the purchase API.
const ServiceName = "ecoharmony.park.Purchases"

const checkTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CheckFunc probes one dependency.
type CheckFunc func(ctx context.Context) error

// Monitor runs dependency checks and publishes the result to a gRPC health server.
type Monitor struct {
	server *health.Server

	mu     sync.RWMutex
	checks map[string]CheckFunc
	failed map[string]error
}

// NewMonitor returns a Monitor with no checks; it reports SERVING until a check fails.
func NewMonitor() *Monitor {
	m := &Monitor{
		server: health.NewServer(),
		checks: make(map[string]CheckFunc),
		failed: make(map[string]error),
	}
	m.server.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return m
}

// AddPinger registers p under name.
func (m *Monitor) AddPinger(name string, p Pinger) {
	if p == nil {
		return
	}
	m.AddCheck(name, p.PingContext)
}

// AddCheck registers fn under name, replacing any previous check with that name.
func (m *Monitor) AddCheck(name string, fn CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[name] = fn
}

// Server returns the gRPC health server to register on a grpc.Server.
func (m *Monitor) Server() *health.Server {
	return m.server
}

// Check runs every check once and updates the serving status. It returns the failures by name.
func (m *Monitor) Check(ctx context.Context) map[string]error {
	m.mu.RLock()
	checks := make(map[string]CheckFunc, len(m.checks))
	for k, v := range m.checks {
		checks[k] = v
	}
	m.mu.RUnlock()

	failed := make(map[string]error)
	for name, fn := range checks {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := fn(cctx)
		cancel()
		if err != nil {
			failed[name] = err
		}
	}

	m.mu.Lock()
	for name, err := range failed {
		if _, already := m.failed[name]; !already {
			log.Printf("health: %s check failing: %v", name, err)
		}
	}
	m.failed = failed
	m.mu.Unlock()

	status := healthpb.HealthCheckResponse_SERVING
	if len(failed) > 0 {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	m.server.SetServingStatus("", status)
	m.server.SetServingStatus(ServiceName, status)
	return failed
}

// Healthy reports whether the last Check found no failures.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.failed) == 0
}

// Run checks every interval until ctx is done, then marks the service NOT_SERVING.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	m.Check(ctx)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			m.server.Shutdown()
			return
		case <-t.C:
			m.Check(ctx)
		}
	}
}
