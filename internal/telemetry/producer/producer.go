// Package producer publishes purchase events to a message broker (Kafka).
package producer

import "ecoharmony-park/backend/internal/telemetry"

// Producer emits purchase events. Callers use it best-effort: log and ignore errors.
type Producer interface {
	telemetry.EventEmitter
	// Close flushes pending records and releases resources. Safe to call if already closed.
	Close() error
}
