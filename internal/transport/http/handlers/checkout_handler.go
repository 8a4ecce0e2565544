package handlers

import (
	"net/http"

	paymentsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/payments"
	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/dto"
	httperrors "github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/errors"
)

type CheckoutHandler struct {
	payments *paymentsvc.Service
}

func NewCheckoutHandler(payments *paymentsvc.Service) *CheckoutHandler {
	return &CheckoutHandler{payments: payments}
}

// CreateTrialSubscription starts a hosted checkout session for the trial
// plan and returns the URL the client redirects to.
func (h *CheckoutHandler) CreateTrialSubscription(w http.ResponseWriter, r *http.Request) {
	if h.payments == nil {
		writeInternal(w, "PAYMENTS_SERVICE_UNAVAILABLE", "payments service is unavailable")
		return
	}

	url, err := h.payments.CreateTrialCheckout(r.Context())
	if err != nil {
		writeInternal(w, "CHECKOUT_FAILED", "failed to create checkout session")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TrialCheckoutResponse{URL: url})
}
