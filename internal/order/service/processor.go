// Package service runs purchase drafts through validation, pricing, visitor registration and
// receipt delivery, turning every outcome into a domain.Result.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ecoharmony-park/backend/internal/logging"
	"ecoharmony-park/backend/internal/order/domain"
	"ecoharmony-park/backend/internal/order/metrics"
	"ecoharmony-park/backend/internal/order/pricing"
	"ecoharmony-park/backend/internal/order/validator"
	"ecoharmony-park/backend/internal/park"
	"ecoharmony-park/backend/internal/telemetry"
	userdomain "ecoharmony-park/backend/internal/user/domain"
	userrepo "ecoharmony-park/backend/internal/user/repository"
)

// Notifier delivers a receipt. It returns whether a send occurred (or was simulated).
type Notifier interface {
	SendReceipt(ctx context.Context, body, recipient string) (bool, error)
}

// Deps holds the collaborators of a Processor. Events and Metrics may be nil.
type Deps struct {
	Users    userrepo.Repository
	Notifier Notifier
	Events   telemetry.EventEmitter
	Metrics  *metrics.Metrics
	// Now defaults to time.Now. It decides both "today" for visit dates and card expiry.
	Now func() time.Time
}

// Processor handles purchase drafts. It holds no per-order state and is safe for concurrent use
// as long as each draft is used by one caller at a time.
type Processor struct {
	rules     *park.Rules
	validator *validator.Validator
	cards     *validator.CardValidator
	users     userrepo.Repository
	notifier  Notifier
	events    telemetry.EventEmitter
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// NewProcessor returns a Processor applying rules.
func NewProcessor(rules *park.Rules, deps Deps) *Processor {
	nowF := deps.Now
	if nowF == nil {
		nowF = time.Now
	}
	return &Processor{
		rules:     rules,
		validator: validator.NewWithClock(rules, nowF),
		cards:     validator.NewCardValidator(nowF),
		users:     deps.Users,
		notifier:  deps.Notifier,
		events:    deps.Events,
		metrics:   deps.Metrics,
		tracer:    otel.Tracer("ecoharmony-park/backend/internal/order/service"),
	}
}

// Rules returns the park rules the processor validates and prices with.
func (p *Processor) Rules() *park.Rules {
	return p.rules
}

// Process validates and prices d. An invalid draft yields every violation joined by a single space;
// a valid one yields the confirmation text with the payment-specific suffix. Process has no side
// effects on collaborators, so repeating it on an unchanged draft returns the same message.
func (p *Processor) Process(d *domain.Draft) domain.Result {
	res := p.process(d)
	if res.OK {
		p.countOrder(metrics.OutcomeConfirmed, d)
		p.countTickets(d)
	} else {
		p.countOrder(metrics.OutcomeRejected, d)
	}
	return res
}

func (p *Processor) process(d *domain.Draft) domain.Result {
	if errs := p.validator.Validate(d); len(errs) > 0 {
		return domain.Result{OK: false, Message: strings.Join(errs, " ")}
	}
	total := pricing.TotalPrice(d, p.rules)
	msg := fmt.Sprintf("Compra confirmada para %s: %d entradas para el %s por $%d.",
		d.Requester.Email, d.Quantity, d.VisitDay(), total)
	if d.Payment == domain.PaymentCard {
		msg += " Redirigiendo a Mercado Pago..."
	} else {
		msg += " Pago en boletería."
	}
	return domain.Result{OK: true, Message: msg}
}

// ConfirmWithReceipt processes d and, when it is valid, sends the confirmation to the requester.
// Delivery problems never undo the order; they only change the appended notice.
func (p *Processor) ConfirmWithReceipt(ctx context.Context, d *domain.Draft) domain.Result {
	ctx, span := p.tracer.Start(ctx, "order.ConfirmWithReceipt", trace.WithAttributes(
		attribute.String("order.payment", string(d.Payment)),
		attribute.Int("order.quantity", d.Quantity),
	))
	defer span.End()

	res := p.Process(d)
	p.emit(ctx, d, res)
	if !res.OK {
		span.SetStatus(codes.Error, "order rejected")
		return res
	}

	recipient := d.Requester.Email
	sent, err := p.notifier.SendReceipt(ctx, res.Message, recipient)
	switch {
	case err != nil:
		log.Printf("order: receipt to %s failed: %v", logging.RedactEmail(recipient), err)
		span.RecordError(err)
		p.receipt(ctx, metrics.ReceiptFailed, recipient, err.Error())
		res.Message += fmt.Sprintf("\n\nError al enviar el correo: %v", err)
	case sent:
		p.receipt(ctx, metrics.ReceiptSent, recipient, "")
		res.Message += fmt.Sprintf("\n\nSe envió un recibo a %s.", recipient)
	default:
		p.receipt(ctx, metrics.ReceiptNotSent, recipient, "")
		res.Message += "\n\nNo se pudo enviar el email de confirmación."
	}
	return res
}

// PayByCard runs the card checkout for d.
//
// Only card drafts are accepted; any other payment method is rejected with the payment message and
// nothing else happens. Card fields are checked next and stop at the first failure, which is returned as a
// *domain.CardFieldError with no processing done. Otherwise d is processed; an invalid draft is
// returned as is. For a valid draft the receipt email must match a registered requester, or an
// unregistered requester is registered under the receipt email and promoted. Finally the receipt
// is sent to that email. Store failures end the checkout with a failed Result.
func (p *Processor) PayByCard(ctx context.Context, d *domain.Draft, card domain.Card, receiptEmail string) (domain.Result, error) {
	if p.metrics != nil {
		defer p.metrics.ObserveCardCheckout(time.Now())
	}
	ctx, span := p.tracer.Start(ctx, "order.PayByCard", trace.WithAttributes(
		attribute.Int("order.quantity", d.Quantity),
		attribute.String("order.pass_type", d.PassType),
	))
	defer span.End()

	if d.Payment != domain.PaymentCard {
		p.countOrder(metrics.OutcomeRejected, d)
		span.SetStatus(codes.Error, "not a card order")
		return domain.Result{OK: false, Message: validator.MsgInvalidPayment}, nil
	}

	if err := p.cards.Validate(card); err != nil {
		p.countOrder(metrics.OutcomeCardRejected, d)
		p.event(ctx, telemetry.EventCardRejected, d, 0, err.Error())
		span.SetStatus(codes.Error, "card rejected")
		return domain.Result{OK: false, Message: err.Error()}, err
	}

	entered := strings.TrimSpace(receiptEmail)
	res := p.process(d)
	if !res.OK {
		p.countOrder(metrics.OutcomeRejected, d)
		p.emit(ctx, d, res)
		span.SetStatus(codes.Error, "order rejected")
		return res, nil
	}

	requester := d.Requester
	row, err := p.users.GetByEmail(ctx, requester.Email)
	if err != nil {
		return p.storeFailure(ctx, span, d, err), nil
	}
	if requester.Registered && row != nil {
		if entered != requester.Email {
			p.countOrder(metrics.OutcomeIdentityMismatch, d)
			p.event(ctx, telemetry.EventIdentityMismatch, d, 0, "")
			span.SetStatus(codes.Error, "receipt email mismatch")
			return domain.Result{
				OK: false,
				Message: fmt.Sprintf("El email ingresado (%s) no coincide con el usuario registrado (%s).\nNo se puede enviar el recibo.",
					entered, requester.Email),
			}, nil
		}
	} else {
		if err := p.users.InsertIfAbsent(ctx, entered, userdomain.AutoRegisteredName, ""); err != nil {
			return p.storeFailure(ctx, span, d, err), nil
		}
		requester.Promote(entered)
		if p.metrics != nil {
			p.metrics.IncrementAutoRegistration()
		}
		p.event(ctx, telemetry.EventVisitorRegistered, d, 0, "")
	}

	p.countOrder(metrics.OutcomeConfirmed, d)
	p.countTickets(d)
	p.emit(ctx, d, res)

	sent, err := p.notifier.SendReceipt(ctx, res.Message, entered)
	switch {
	case err != nil:
		log.Printf("order: card receipt to %s failed: %v", logging.RedactEmail(entered), err)
		span.RecordError(err)
		p.receipt(ctx, metrics.ReceiptFailed, entered, err.Error())
		return domain.Result{OK: true, Message: fmt.Sprintf("Pago procesado, pero fallo el envío del email: %v", err)}, nil
	case sent:
		p.receipt(ctx, metrics.ReceiptSent, entered, "")
		return domain.Result{OK: true, Message: fmt.Sprintf("¡Pago con tarjeta procesado con éxito!\n\n%s\n\nSe envió un recibo a %s.", res.Message, entered)}, nil
	default:
		p.receipt(ctx, metrics.ReceiptNotSent, entered, "")
		return domain.Result{OK: true, Message: fmt.Sprintf("¡Pago con tarjeta procesado con éxito!\n\n%s\n\nNo se pudo enviar el email de confirmación a %s.", res.Message, entered)}, nil
	}
}

func (p *Processor) storeFailure(ctx context.Context, span trace.Span, d *domain.Draft, err error) domain.Result {
	log.Printf("order: verify/register %s: %v", logging.RedactEmail(d.Requester.Email), err)
	span.RecordError(err)
	span.SetStatus(codes.Error, "user store failure")
	p.countOrder(metrics.OutcomeStoreError, d)
	return domain.Result{OK: false, Message: fmt.Sprintf("Error al verificar/registrar email: %v", err)}
}

// IsCardFieldError reports whether err came from card field validation.
func IsCardFieldError(err error) bool {
	var fe *domain.CardFieldError
	return errors.As(err, &fe)
}

func (p *Processor) countOrder(outcome string, d *domain.Draft) {
	if p.metrics != nil {
		p.metrics.IncrementOrder(outcome, string(d.Payment))
	}
}

func (p *Processor) countTickets(d *domain.Draft) {
	if p.metrics != nil {
		p.metrics.AddTickets(d.PassType, d.Quantity)
	}
}

// emit publishes the processing outcome of d.
func (p *Processor) emit(ctx context.Context, d *domain.Draft, res domain.Result) {
	if res.OK {
		p.event(ctx, telemetry.EventOrderConfirmed, d, pricing.TotalPrice(d, p.rules), "")
		return
	}
	p.event(ctx, telemetry.EventOrderRejected, d, 0, res.Message)
}

func (p *Processor) event(ctx context.Context, typ string, d *domain.Draft, total int, detail string) {
	if p.events == nil {
		return
	}
	ev := &telemetry.PurchaseEvent{
		Type:      typ,
		Payment:   string(d.Payment),
		PassType:  d.PassType,
		Quantity:  d.Quantity,
		Total:     total,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if d.Requester != nil {
		ev.Email = d.Requester.Email
	}
	telemetry.EmitAsync(p.events, ctx, ev)
}

func (p *Processor) receipt(ctx context.Context, status, recipient, detail string) {
	if p.metrics != nil {
		p.metrics.IncrementReceipt(status)
	}
	if p.events == nil {
		return
	}
	typ := telemetry.EventReceiptSent
	switch status {
	case metrics.ReceiptNotSent:
		typ = telemetry.EventReceiptNotSent
	case metrics.ReceiptFailed:
		typ = telemetry.EventReceiptFailed
	}
	telemetry.EmitAsync(p.events, ctx, &telemetry.PurchaseEvent{
		Type:      typ,
		Email:     recipient,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	})
}
