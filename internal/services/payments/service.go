package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	stripelib "github.com/stripe/stripe-go/v82"

	pgrepo "github.com/Janibulhoqsiam/stripe-webhook-render/internal/repo/postgres"
	entsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/entitlements"
)

var (
	ErrMissingEmail = errors.New("event has no customer email")
)

// Granter persists a derived entitlement. Satisfied by the entitlements
// service.
type Granter interface {
	Grant(ctx context.Context, email, descriptor string) (pgrepo.EntitlementRecord, error)
}

// CheckoutCreator starts a hosted trial checkout session. Satisfied by the
// Stripe infra client.
type CheckoutCreator interface {
	CreateTrialCheckout(ctx context.Context) (*stripelib.CheckoutSession, error)
}

type Service struct {
	entitlements Granter
	lineItems    LineItemSource
	checkout     CheckoutCreator
}

type Dependencies struct {
	Entitlements Granter
	LineItems    LineItemSource
	Checkout     CheckoutCreator
}

// Outcome reports what a webhook event produced. Ignored events are
// acknowledged to the provider without any side effect.
type Outcome struct {
	EventType   string
	Ignored     bool
	Entitlement pgrepo.EntitlementRecord
}

func NewService(deps Dependencies) *Service {
	return &Service{
		entitlements: deps.Entitlements,
		lineItems:    deps.LineItems,
		checkout:     deps.Checkout,
	}
}

// ProcessStripeEvent derives an entitlement from a signature-verified Stripe
// event. Unrecognized event types are ignored, not failed, so the provider
// does not retry them.
func (s *Service) ProcessStripeEvent(ctx context.Context, event stripelib.Event) (Outcome, error) {
	eventType := string(event.Type)

	switch event.Type {
	case "checkout.session.completed":
		if event.Data == nil {
			return Outcome{EventType: eventType}, fmt.Errorf("decode checkout session: event has no data")
		}
		var session checkoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return Outcome{EventType: eventType}, fmt.Errorf("decode checkout session: %w", err)
		}
		return s.process(ctx, &checkoutCompletedEvent{
			session:   session,
			lineItems: s.lineItems,
		})
	default:
		return Outcome{EventType: eventType, Ignored: true}, nil
	}
}

// ProcessPaystackEvent derives an entitlement from a signature-verified
// Paystack webhook body.
func (s *Service) ProcessPaystackEvent(ctx context.Context, body []byte) (Outcome, error) {
	var payload paystackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Outcome{}, fmt.Errorf("decode paystack event: %w", err)
	}

	switch payload.Event {
	case "subscription.create", "charge.success":
		return s.process(ctx, &paystackChargeEvent{payload: payload})
	default:
		return Outcome{EventType: payload.Event, Ignored: true}, nil
	}
}

// CreateTrialCheckout starts a hosted checkout session configured for the
// trial plan and returns the redirect URL.
func (s *Service) CreateTrialCheckout(ctx context.Context) (string, error) {
	if s.checkout == nil {
		return "", fmt.Errorf("checkout creator is nil")
	}

	session, err := s.checkout.CreateTrialCheckout(ctx)
	if err != nil {
		return "", err
	}

	return session.URL, nil
}

func (s *Service) process(ctx context.Context, ev Event) (Outcome, error) {
	if s.entitlements == nil {
		return Outcome{}, fmt.Errorf("payments dependencies are not configured")
	}

	outcome := Outcome{EventType: ev.Type()}

	details, err := ev.Details(ctx)
	if err != nil {
		return outcome, err
	}

	rec, err := s.entitlements.Grant(ctx, details.Email, details.Descriptor)
	if err != nil {
		if errors.Is(err, entsvc.ErrValidation) {
			return outcome, ErrMissingEmail
		}
		return outcome, fmt.Errorf("grant entitlement for %s event: %w", ev.Provider(), err)
	}

	outcome.Entitlement = rec
	return outcome, nil
}
