package stripe

import (
	"context"
	"fmt"
	"strings"
	"time"

	stripelib "github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"

	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/config"
)

// Client wraps the Stripe calls the service needs: hosted checkout creation,
// session lookup and line-item retrieval. The call functions are injectable so
// tests can substitute fakes without touching the Stripe backend.
type Client struct {
	trialPriceID string
	trialDays    int64
	successURL   string
	cancelURL    string
	callTimeout  time.Duration

	createSession func(params *stripelib.CheckoutSessionParams) (*stripelib.CheckoutSession, error)
	getSession    func(id string, params *stripelib.CheckoutSessionParams) (*stripelib.CheckoutSession, error)
	listLineItems func(ctx context.Context, sessionID string) ([]*stripelib.LineItem, error)
}

func NewClient(cfg config.StripeConfig) *Client {
	stripelib.Key = strings.TrimSpace(cfg.APIKey)

	return &Client{
		trialPriceID:  strings.TrimSpace(cfg.TrialPriceID),
		trialDays:     int64(cfg.TrialDays),
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		callTimeout:   cfg.CallTimeout,
		createSession: checkoutsession.New,
		getSession:    checkoutsession.Get,
		listLineItems: fetchLineItems,
	}
}

// callContext bounds a Stripe call with the configured timeout. The request
// context flows into the Stripe backend through Params.Context, so the outer
// middleware timeout is only a last resort.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

// GetCheckoutSession fetches a checkout session by its ID.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*stripelib.CheckoutSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	params := &stripelib.CheckoutSessionParams{
		Params: stripelib.Params{Context: ctx},
	}
	session, err := c.getSession(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("get checkout session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("get checkout session: empty response")
	}

	return session, nil
}

// FirstLineItemDescription returns the description of the first line item
// purchased in the session, or an empty string when the session has none.
func (c *Client) FirstLineItemDescription(ctx context.Context, sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", fmt.Errorf("session id is required")
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	items, err := c.listLineItems(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("list line items: %w", err)
	}
	if len(items) == 0 || items[0] == nil {
		return "", nil
	}

	return items[0].Description, nil
}

// CreateTrialCheckout creates a hosted checkout session in subscription mode
// with the configured trial period and returns it.
func (c *Client) CreateTrialCheckout(ctx context.Context) (*stripelib.CheckoutSession, error) {
	if c.trialPriceID == "" {
		return nil, fmt.Errorf("stripe trial price id is not configured")
	}

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	params := &stripelib.CheckoutSessionParams{
		Params:     stripelib.Params{Context: ctx},
		Mode:       stripelib.String(string(stripelib.CheckoutSessionModeSubscription)),
		SuccessURL: stripelib.String(c.successURL),
		CancelURL:  stripelib.String(c.cancelURL),
		LineItems: []*stripelib.CheckoutSessionLineItemParams{
			{
				Price:    stripelib.String(c.trialPriceID),
				Quantity: stripelib.Int64(1),
			},
		},
		SubscriptionData: &stripelib.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripelib.Int64(c.trialDays),
		},
	}

	session, err := c.createSession(params)
	if err != nil {
		return nil, fmt.Errorf("create trial checkout session: %w", err)
	}
	if session == nil || strings.TrimSpace(session.URL) == "" {
		return nil, fmt.Errorf("create trial checkout session: missing redirect url")
	}

	return session, nil
}

func fetchLineItems(ctx context.Context, sessionID string) ([]*stripelib.LineItem, error) {
	params := &stripelib.CheckoutSessionListLineItemsParams{
		Session: stripelib.String(sessionID),
	}
	params.Context = ctx

	var items []*stripelib.LineItem
	iter := checkoutsession.ListLineItems(params)
	for iter.Next() {
		items = append(items, iter.LineItem())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
