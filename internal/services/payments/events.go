package payments

import (
	"context"
	"fmt"
	"strings"
)

// Details is what an entitlement is derived from: the buyer contact and the
// product descriptor that decides the grant duration.
type Details struct {
	Email      string
	Descriptor string
}

// Event is a verified payment-provider notification. Each provider variant
// owns its extraction logic; Details may call back to the provider (line-item
// lookup) and so takes a context.
type Event interface {
	Provider() string
	Type() string
	Details(ctx context.Context) (Details, error)
}

// LineItemSource resolves the purchased product description for a checkout
// session. Satisfied by the Stripe infra client.
type LineItemSource interface {
	FirstLineItemDescription(ctx context.Context, sessionID string) (string, error)
}

// checkoutSession is the slice of a Stripe checkout.session.completed object
// the deriver needs.
type checkoutSession struct {
	ID              string `json:"id"`
	CustomerDetails struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
}

type checkoutCompletedEvent struct {
	session   checkoutSession
	lineItems LineItemSource
}

func (e *checkoutCompletedEvent) Provider() string { return "stripe" }

func (e *checkoutCompletedEvent) Type() string { return "checkout.session.completed" }

func (e *checkoutCompletedEvent) Details(ctx context.Context) (Details, error) {
	email := strings.TrimSpace(e.session.CustomerDetails.Email)
	if email == "" {
		return Details{}, ErrMissingEmail
	}

	descriptor, err := e.lineItems.FirstLineItemDescription(ctx, e.session.ID)
	if err != nil {
		return Details{}, fmt.Errorf("resolve line item for session %s: %w", e.session.ID, err)
	}

	return Details{Email: email, Descriptor: descriptor}, nil
}

// paystackPayload is the slice of a Paystack webhook body shared by
// subscription.create and charge.success events.
type paystackPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
		Plan struct {
			Name string `json:"name"`
		} `json:"plan"`
	} `json:"data"`
}

type paystackChargeEvent struct {
	payload paystackPayload
}

func (e *paystackChargeEvent) Provider() string { return "paystack" }

func (e *paystackChargeEvent) Type() string { return e.payload.Event }

func (e *paystackChargeEvent) Details(context.Context) (Details, error) {
	email := strings.TrimSpace(e.payload.Data.Customer.Email)
	if email == "" {
		return Details{}, ErrMissingEmail
	}

	return Details{Email: email, Descriptor: e.payload.Data.Plan.Name}, nil
}
