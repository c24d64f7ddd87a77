package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// mockEventEmitter implements EventEmitter for tests.
type mockEventEmitter struct {
	mu      sync.Mutex
	events  []*PurchaseEvent
	emitErr error
	delay   time.Duration
	done    chan struct{}
}

func (m *mockEventEmitter) Emit(ctx context.Context, event *PurchaseEvent) error {
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.delay):
		}
	}
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []*PurchaseEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

func waitN(t *testing.T, done chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for emit %d of %d", i+1, n)
		}
	}
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	EmitAsync(nil, context.Background(), &PurchaseEvent{Type: EventOrderConfirmed})
}

func TestEmitAsync_NilEvent(t *testing.T) {
	emitter := &mockEventEmitter{}
	EmitAsync(emitter, context.Background(), nil)
	time.Sleep(10 * time.Millisecond)
	if n := len(emitter.getEvents()); n != 0 {
		t.Errorf("expected 0 events, got %d", n)
	}
}

func TestEmitAsync_SuccessfulEmit(t *testing.T) {
	emitter := &mockEventEmitter{done: make(chan struct{}, 1)}
	EmitAsync(emitter, context.Background(), &PurchaseEvent{Type: EventOrderConfirmed, Email: "ana@example.com", Total: 20000})
	waitN(t, emitter.done, 1)

	events := emitter.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != EventOrderConfirmed || events[0].Total != 20000 {
		t.Errorf("event = %+v", events[0])
	}
}

func TestEmitAsync_DetachedFromCallerContext(t *testing.T) {
	emitter := &mockEventEmitter{done: make(chan struct{}, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	EmitAsync(emitter, ctx, &PurchaseEvent{Type: EventReceiptSent})
	waitN(t, emitter.done, 1)
	if n := len(emitter.getEvents()); n != 1 {
		t.Errorf("expected 1 event despite canceled caller context, got %d", n)
	}
}

func TestEmitAsync_ErrorIsSwallowed(t *testing.T) {
	emitter := &mockEventEmitter{emitErr: errors.New("collector down"), done: make(chan struct{}, 1)}
	EmitAsync(emitter, context.Background(), &PurchaseEvent{Type: EventReceiptFailed})
	waitN(t, emitter.done, 1)
}

func TestEmitAsync_ConcurrentAccess(t *testing.T) {
	emitter := &mockEventEmitter{done: make(chan struct{}, 10)}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			EmitAsync(emitter, context.Background(), &PurchaseEvent{Type: EventOrderRejected})
		}()
	}
	wg.Wait()
	waitN(t, emitter.done, 10)
	if n := len(emitter.getEvents()); n != 10 {
		t.Errorf("expected 10 events, got %d", n)
	}
}

func TestDrain_WaitsForInflightEmits(t *testing.T) {
	emitter := &mockEventEmitter{delay: 20 * time.Millisecond}
	for i := 0; i < 3; i++ {
		EmitAsync(emitter, context.Background(), &PurchaseEvent{Type: EventOrderConfirmed})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if n := len(emitter.getEvents()); n != 3 {
		t.Errorf("events after Drain = %d, want 3", n)
	}
}

func TestDrain_RespectsContext(t *testing.T) {
	emitter := &mockEventEmitter{delay: time.Second}
	EmitAsync(emitter, context.Background(), &PurchaseEvent{Type: EventOrderConfirmed})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := Drain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Drain err = %v, want deadline exceeded", err)
	}
}
