package health

import (
	"context"
	"errors"
	"testing"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// mockPinger implements Pinger for tests.
type mockPinger struct {
	pingErr error
}

func (m *mockPinger) PingContext(context.Context) error {
	return m.pingErr
}

func status(t *testing.T, m *Monitor, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := m.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q): %v", service, err)
	}
	return resp.GetStatus()
}

func TestMonitor_NoChecks(t *testing.T) {
	m := NewMonitor()
	if failed := m.Check(context.Background()); len(failed) != 0 {
		t.Errorf("failed = %v, want none", failed)
	}
	if !m.Healthy() {
		t.Error("Healthy = false")
	}
	if got := status(t, m, ServiceName); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", got)
	}
}

func TestMonitor_PingerFailure(t *testing.T) {
	m := NewMonitor()
	db := &mockPinger{pingErr: errors.New("connection refused")}
	m.AddPinger("database", db)
	m.AddPinger("nil", nil)

	failed := m.Check(context.Background())
	if len(failed) != 1 || failed["database"] == nil {
		t.Fatalf("failed = %v, want database only", failed)
	}
	if m.Healthy() {
		t.Error("Healthy = true with failing database")
	}
	for _, svc := range []string{"", ServiceName} {
		if got := status(t, m, svc); got != healthpb.HealthCheckResponse_NOT_SERVING {
			t.Errorf("status(%q) = %v, want NOT_SERVING", svc, got)
		}
	}

	db.pingErr = nil
	m.Check(context.Background())
	if !m.Healthy() {
		t.Error("Healthy = false after recovery")
	}
	if got := status(t, m, ServiceName); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING after recovery", got)
	}
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	m := NewMonitor()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	cancel()
	<-done
	if got := status(t, m, ServiceName); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status after shutdown = %v, want NOT_SERVING", got)
	}
}
