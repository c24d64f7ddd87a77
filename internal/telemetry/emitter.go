package telemetry

import (
	"context"
	"errors"
	"time"
)

// Purchase event types.
const (
	EventOrderConfirmed    = "order.confirmed"
	EventOrderRejected     = "order.rejected"
	EventCardRejected      = "order.card_rejected"
	EventIdentityMismatch  = "order.identity_mismatch"
	EventVisitorRegistered = "visitor.auto_registered"
	EventReceiptSent       = "receipt.sent"
	EventReceiptNotSent    = "receipt.not_sent"
	EventReceiptFailed     = "receipt.failed"
)

// PurchaseEvent is one notable step of a purchase, exported for analytics.
type PurchaseEvent struct {
	Type      string    `json:"event_type"`
	Email     string    `json:"email,omitempty"`
	Payment   string    `json:"payment,omitempty"`
	PassType  string    `json:"pass_type,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Total     int       `json:"total,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EventEmitter emits purchase events (e.g. to OTel Logs or Kafka). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *PurchaseEvent) error
}

// Multi returns an emitter that sends each event to every non-nil emitter in order.
// All emitters are tried; the errors are joined.
func Multi(emitters ...EventEmitter) EventEmitter {
	var live multiEmitter
	for _, e := range emitters {
		if e != nil {
			live = append(live, e)
		}
	}
	if len(live) == 1 {
		return live[0]
	}
	return live
}

type multiEmitter []EventEmitter

func (m multiEmitter) Emit(ctx context.Context, event *PurchaseEvent) error {
	var errs []error
	for _, e := range m {
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
