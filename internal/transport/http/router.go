// Package httptransport exposes the purchase flow as a JSON API.
package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	identitydomain "ecoharmony-park/backend/internal/identity/domain"
	orderdomain "ecoharmony-park/backend/internal/order/domain"
	"ecoharmony-park/backend/internal/park"
	sessiondomain "ecoharmony-park/backend/internal/session/domain"
)

// SessionHeader carries the purchase session ID on order requests.
const SessionHeader = "X-Session-ID"

// OrderService processes drafts. Implemented by the order service Processor.
type OrderService interface {
	Rules() *park.Rules
	Process(d *orderdomain.Draft) orderdomain.Result
	ConfirmWithReceipt(ctx context.Context, d *orderdomain.Draft) orderdomain.Result
	PayByCard(ctx context.Context, d *orderdomain.Draft, card orderdomain.Card, receiptEmail string) (orderdomain.Result, error)
}

// SessionService starts and resumes purchase sessions.
type SessionService interface {
	Start(ctx context.Context, email string) (*sessiondomain.Session, error)
	Get(ctx context.Context, id string) (*sessiondomain.Session, error)
	Sync(ctx context.Context, sess *sessiondomain.Session, id *identitydomain.Identity) error
}

// HealthReporter reports readiness for /healthz.
type HealthReporter interface {
	Healthy() bool
}

// Deps holds the collaborators of the HTTP API. Health and Gatherer may be nil.
type Deps struct {
	Orders         OrderService
	Sessions       SessionService
	Health         HealthReporter
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// Handler serves the purchase API.
type Handler struct {
	orders   OrderService
	sessions SessionService
	health   HealthReporter
}

// NewRouter wires all public endpoints.
func NewRouter(deps Deps) http.Handler {
	h := &Handler{orders: deps.Orders, sessions: deps.Sessions, health: deps.Health}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", SessionHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.handleHealth)
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions", h.handleStartSession)
		r.Get("/park/rules", h.handleRules)
		r.Post("/quotes", h.handleQuote)
		r.Post("/orders", h.handleOrder)
		r.Post("/orders/card", h.handleCardOrder)
	})
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil && !h.health.Healthy() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decode reads a JSON body into v, rejecting unknown fields and bodies over 64 KiB.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
