package stripe

import (
	stripelib "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// VerifyWebhook authenticates the raw request body against the
// Stripe-Signature header. The body must be the exact bytes Stripe sent;
// parsing and re-serializing it first would break the signature.
func VerifyWebhook(payload []byte, sigHeader, secret string) (stripelib.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}
