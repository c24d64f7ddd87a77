package telemetry

import (
	"context"
	"log"
	"sync"
	"time"
)

// emitTimeout bounds a single background emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is the longest Drain should be given at shutdown; every in-flight emit
// finishes or times out within it.
const ShutdownDrainDuration = emitTimeout

var inflight sync.WaitGroup

// EmitAsync sends event in the background so purchase handling never waits on an exporter or broker.
// The emit runs on its own context bounded by emitTimeout, detached from ctx, so a finished HTTP
// request does not cancel it. Failures are logged. A nil emitter or event is a no-op.
func EmitAsync(emitter EventEmitter, ctx context.Context, event *PurchaseEvent) {
	if emitter == nil || event == nil {
		return
	}
	inflight.Add(1)
	go func() {
		defer inflight.Done()
		emitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, event); err != nil {
			log.Printf("telemetry: emit %s failed: %v", event.Type, err)
		}
	}()
}

// Drain waits for background emits started by EmitAsync, or until ctx is done.
func Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
