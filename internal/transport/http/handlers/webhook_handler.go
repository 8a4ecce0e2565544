package handlers

import (
	"errors"
	"io"
	"net/http"

	stripelib "github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/infra/paystack"
	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/infra/stripe"
	paymentsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/payments"
	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/dto"
	httperrors "github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/errors"
)

const maxWebhookBodySize = 1 << 20 // 1 MiB, matches Stripe's own payload cap

type WebhookHandler struct {
	payments       *paymentsvc.Service
	stripeSecret   string
	paystackSecret string
	logger         *zap.Logger

	verifyStripe func(payload []byte, sigHeader, secret string) (stripelib.Event, error)
}

func NewWebhookHandler(payments *paymentsvc.Service, stripeSecret, paystackSecret string, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{
		payments:       payments,
		stripeSecret:   stripeSecret,
		paystackSecret: paystackSecret,
		logger:         logger,
		verifyStripe:   stripe.VerifyWebhook,
	}
}

// Stripe handles checkout webhook deliveries. Once the signature checks out
// the provider is acknowledged with 200 even if persisting the entitlement
// fails, so Stripe does not redeliver; the one exception is a completed
// checkout with no customer email, which is rejected with 400.
func (h *WebhookHandler) Stripe(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeInternal(w, "PAYMENTS_SERVICE_UNAVAILABLE", "payments service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "failed to read request body")
		return
	}

	event, err := h.verifyStripe(body, r.Header.Get("Stripe-Signature"), h.stripeSecret)
	if err != nil {
		h.logger.Warn("stripe webhook signature verification failed", zap.Error(err))
		writeBadRequest(w, "INVALID_SIGNATURE", "webhook signature verification failed")
		return
	}

	outcome, err := h.payments.ProcessStripeEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, paymentsvc.ErrMissingEmail) {
			writeBadRequest(w, "MISSING_EMAIL", "checkout session has no customer email")
			return
		}
		h.logger.Error("stripe webhook processing failed",
			zap.String("event_type", outcome.EventType),
			zap.Error(err))
	} else if outcome.Ignored {
		h.logger.Info("stripe webhook event ignored", zap.String("event_type", outcome.EventType))
	}

	httperrors.Write(w, http.StatusOK, dto.WebhookAckResponse{Received: true})
}

// Paystack handles charge webhook deliveries. An invalid X-Paystack-Signature
// is rejected with 401; after that the provider is always acknowledged with
// 200, same as the Stripe path.
func (h *WebhookHandler) Paystack(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeInternal(w, "PAYMENTS_SERVICE_UNAVAILABLE", "payments service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "failed to read request body")
		return
	}

	if !paystack.VerifySignature(h.paystackSecret, body, r.Header.Get("X-Paystack-Signature")) {
		h.logger.Warn("paystack webhook signature verification failed")
		writeUnauthorized(w, "INVALID_SIGNATURE", "webhook signature verification failed")
		return
	}

	outcome, err := h.payments.ProcessPaystackEvent(r.Context(), body)
	if err != nil {
		if errors.Is(err, paymentsvc.ErrMissingEmail) {
			writeBadRequest(w, "MISSING_EMAIL", "charge event has no customer email")
			return
		}
		h.logger.Error("paystack webhook processing failed",
			zap.String("event_type", outcome.EventType),
			zap.Error(err))
	} else if outcome.Ignored {
		h.logger.Info("paystack webhook event ignored", zap.String("event_type", outcome.EventType))
	}

	httperrors.Write(w, http.StatusOK, dto.WebhookAckResponse{Received: true})
}
