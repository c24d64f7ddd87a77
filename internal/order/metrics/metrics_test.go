package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementOrder(OutcomeConfirmed, "efectivo")
	m.IncrementOrder(OutcomeConfirmed, "efectivo")
	m.IncrementOrder(OutcomeRejected, "tarjeta")
	m.AddTickets("VIP", 3)
	m.IncrementReceipt(ReceiptSent)
	m.IncrementAutoRegistration()
	m.ObserveCardCheckout(time.Now())

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"confirmed cash orders", testutil.ToFloat64(m.Orders.WithLabelValues(OutcomeConfirmed, "efectivo")), 2},
		{"rejected card orders", testutil.ToFloat64(m.Orders.WithLabelValues(OutcomeRejected, "tarjeta")), 1},
		{"VIP tickets", testutil.ToFloat64(m.TicketsSold.WithLabelValues("VIP")), 3},
		{"receipts sent", testutil.ToFloat64(m.Receipts.WithLabelValues(ReceiptSent)), 1},
		{"auto registrations", testutil.ToFloat64(m.AutoRegistrations), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	n, err := testutil.GatherAndCount(reg, "ecoharmony_card_checkout_duration_seconds")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if n != 1 {
		t.Errorf("checkout histogram series = %d, want 1", n)
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("New on a fresh registry panicked: %v", r)
		}
	}()
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
