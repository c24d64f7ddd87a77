package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Order outcome label values.
const (
	OutcomeConfirmed        = "confirmed"
	OutcomeRejected         = "rejected"
	OutcomeCardRejected     = "card_rejected"
	OutcomeIdentityMismatch = "identity_mismatch"
	OutcomeStoreError       = "store_error"
)

// Receipt status label values.
const (
	ReceiptSent    = "sent"
	ReceiptNotSent = "not_sent"
	ReceiptFailed  = "failed"
)

// Metrics provides observability for order processing: outcomes per payment method,
// receipt delivery, auto-registrations and the card checkout duration.
type Metrics struct {
	Orders             *prometheus.CounterVec
	TicketsSold        *prometheus.CounterVec
	Receipts           *prometheus.CounterVec
	AutoRegistrations  prometheus.Counter
	CardCheckoutLength prometheus.Histogram
}

// New registers the order metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Orders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ecoharmony_orders_total",
			Help: "Processed orders by outcome and payment method",
		}, []string{"outcome", "payment"}),
		TicketsSold: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ecoharmony_tickets_sold_total",
			Help: "Tickets in confirmed orders by pass type",
		}, []string{"pass_type"}),
		Receipts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ecoharmony_receipts_total",
			Help: "Receipt notifications by delivery status",
		}, []string{"status"}),
		AutoRegistrations: f.NewCounter(prometheus.CounterOpts{
			Name: "ecoharmony_visitors_auto_registered_total",
			Help: "Visitors registered automatically by the card checkout",
		}),
		CardCheckoutLength: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ecoharmony_card_checkout_duration_seconds",
			Help:    "Duration of card checkouts including lookup, registration and receipt",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementOrder records one processed order.
func (m *Metrics) IncrementOrder(outcome, payment string) {
	m.Orders.WithLabelValues(outcome, payment).Inc()
}

// AddTickets records the tickets of a confirmed order.
func (m *Metrics) AddTickets(passType string, quantity int) {
	m.TicketsSold.WithLabelValues(passType).Add(float64(quantity))
}

// IncrementReceipt records one receipt delivery attempt.
func (m *Metrics) IncrementReceipt(status string) {
	m.Receipts.WithLabelValues(status).Inc()
}

// IncrementAutoRegistration records an automatic visitor registration.
func (m *Metrics) IncrementAutoRegistration() {
	m.AutoRegistrations.Inc()
}

// ObserveCardCheckout records the duration of a card checkout.
// Call with time.Now() at the start of the checkout.
func (m *Metrics) ObserveCardCheckout(start time.Time) {
	m.CardCheckoutLength.Observe(time.Since(start).Seconds())
}
