package httptransport

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"ecoharmony-park/backend/internal/logging"
	orderdomain "ecoharmony-park/backend/internal/order/domain"
	"ecoharmony-park/backend/internal/order/input"
	"ecoharmony-park/backend/internal/order/pricing"
	sessiondomain "ecoharmony-park/backend/internal/session/domain"
	sessionrepo "ecoharmony-park/backend/internal/session/repository"
)

type startSessionRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	SessionID  string     `json:"session_id"`
	Email      string     `json:"email"`
	Registered bool       `json:"registered"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decode(w, r, &req) {
		return
	}
	sess, err := h.sessions.Start(r.Context(), req.Email)
	if err != nil {
		log.Printf("http: start session for %s: %v", logging.RedactEmail(req.Email), err)
		writeError(w, http.StatusInternalServerError, "could not start session")
		return
	}
	resp := sessionResponse{SessionID: sess.ID, Email: sess.Email, Registered: sess.Registered}
	if !sess.ExpiresAt.IsZero() {
		resp.ExpiresAt = &sess.ExpiresAt
	}
	writeJSON(w, http.StatusCreated, resp)
}

type rulesResponse struct {
	OpenWeekdays []int          `json:"open_weekdays"`
	Prices       map[string]int `json:"prices"`
	MinTickets   int            `json:"min_tickets"`
	MaxTickets   int            `json:"max_tickets"`
}

func (h *Handler) handleRules(w http.ResponseWriter, r *http.Request) {
	rules := h.orders.Rules()
	prices := make(map[string]int)
	for _, pt := range rules.PassTypes() {
		prices[pt] = rules.UnitPrice(pt)
	}
	writeJSON(w, http.StatusOK, rulesResponse{
		OpenWeekdays: rules.OpenWeekdays(),
		Prices:       prices,
		MinTickets:   rules.MinTickets(),
		MaxTickets:   rules.MaxTickets(),
	})
}

type quoteRequest struct {
	Quantity int    `json:"quantity"`
	PassType string `json:"pass_type"`
}

type quoteResponse struct {
	Total         int  `json:"total"`
	UnitPrice     int  `json:"unit_price"`
	KnownPassType bool `json:"known_pass_type"`
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decode(w, r, &req) {
		return
	}
	rules := h.orders.Rules()
	writeJSON(w, http.StatusOK, quoteResponse{
		Total:         pricing.Quote(req.Quantity, req.PassType, rules),
		UnitPrice:     rules.UnitPrice(req.PassType),
		KnownPassType: rules.KnownPassType(req.PassType),
	})
}

// session loads the session named by SessionHeader, writing the error response itself on failure.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*sessiondomain.Session, bool) {
	sess, err := h.sessions.Get(r.Context(), r.Header.Get(SessionHeader))
	if errors.Is(err, sessionrepo.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "unknown or expired session")
		return nil, false
	}
	if err != nil {
		log.Printf("http: load session: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load session")
		return nil, false
	}
	return sess, true
}

func (h *Handler) handleOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var form input.Form
	if !decode(w, r, &form) {
		return
	}
	draft, parsed := input.ParseForm(form, sess.Identity())
	if !parsed.OK {
		writeJSON(w, http.StatusBadRequest, orderdomain.Result{OK: false, Message: parsed.Message})
		return
	}
	var res orderdomain.Result
	if draft.Payment == orderdomain.PaymentCash {
		res = h.orders.ConfirmWithReceipt(r.Context(), draft)
	} else {
		res = h.orders.Process(draft)
	}
	writeJSON(w, http.StatusOK, res)
}

type cardRequest struct {
	HolderName  string `json:"holder_name"`
	Number      string `json:"number"`
	ExpiryMonth string `json:"expiry_month"`
	ExpiryYear  string `json:"expiry_year"`
	CVV         string `json:"cvv"`
}

type cardOrderRequest struct {
	input.Form
	Card         cardRequest `json:"card"`
	ReceiptEmail string      `json:"receipt_email"`
}

func (h *Handler) handleCardOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req cardOrderRequest
	if !decode(w, r, &req) {
		return
	}
	identity := sess.Identity()
	draft, parsed := input.ParseForm(req.Form, identity)
	if !parsed.OK {
		writeJSON(w, http.StatusBadRequest, orderdomain.Result{OK: false, Message: parsed.Message})
		return
	}
	receiptEmail := req.ReceiptEmail
	if strings.TrimSpace(receiptEmail) == "" {
		receiptEmail = sess.Email
	}
	card := orderdomain.Card{
		HolderName:  req.Card.HolderName,
		Number:      req.Card.Number,
		ExpiryMonth: req.Card.ExpiryMonth,
		ExpiryYear:  req.Card.ExpiryYear,
		CVV:         req.Card.CVV,
	}
	res, err := h.orders.PayByCard(r.Context(), draft, card, receiptEmail)
	var fieldErr *orderdomain.CardFieldError
	if errors.As(err, &fieldErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"field_error": fieldErr.Message})
		return
	}
	if err != nil {
		log.Printf("http: card order: %v", err)
		writeError(w, http.StatusInternalServerError, "could not process card order")
		return
	}
	if err := h.sessions.Sync(r.Context(), sess, identity); err != nil {
		log.Printf("http: sync session %s: %v", sess.ID, err)
	}
	writeJSON(w, http.StatusOK, res)
}
