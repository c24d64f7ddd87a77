package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"ecoharmony-park/backend/internal/logging"
	"ecoharmony-park/backend/internal/telemetry"
)

// recordEmitter is the part of otellog.Logger the emitter needs.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewEventEmitter returns an EventEmitter that sends purchase events as OTel log records via provider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return NewEventEmitterWithLogger(provider.Logger("ecoharmony.purchases"))
}

// NewEventEmitterWithLogger returns an EventEmitter writing to logger. Tests pass a capturing logger.
func NewEventEmitterWithLogger(logger recordEmitter) telemetry.EventEmitter {
	return &otelEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *telemetry.PurchaseEvent) error { return nil }

type otelEmitter struct {
	logger recordEmitter
}

// Emit converts the event to a log record. Emails are redacted; zero-valued fields are skipped.
func (e *otelEmitter) Emit(ctx context.Context, event *telemetry.PurchaseEvent) error {
	if event == nil {
		return nil
	}
	rec := otellog.Record{}
	if !event.CreatedAt.IsZero() {
		rec.SetTimestamp(event.CreatedAt)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	rec.SetSeverity(otellog.SeverityInfo)
	if event.Detail != "" {
		rec.SetBody(otellog.StringValue(event.Detail))
	}
	rec.AddAttributes(otellog.String("event_type", event.Type))
	if event.Email != "" {
		rec.AddAttributes(otellog.String("email", logging.RedactEmail(event.Email)))
	}
	if event.Payment != "" {
		rec.AddAttributes(otellog.String("payment", event.Payment))
	}
	if event.PassType != "" {
		rec.AddAttributes(otellog.String("pass_type", event.PassType))
	}
	if event.Quantity != 0 {
		rec.AddAttributes(otellog.Int("quantity", event.Quantity))
	}
	if event.Total != 0 {
		rec.AddAttributes(otellog.Int("total", event.Total))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
