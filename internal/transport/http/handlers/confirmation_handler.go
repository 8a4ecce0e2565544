package handlers

import (
	"errors"
	"net/http"

	confsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/confirmations"
	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/dto"
	httperrors "github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/errors"
)

type ConfirmationHandler struct {
	service *confsvc.Service
}

func NewConfirmationHandler(service *confsvc.Service) *ConfirmationHandler {
	return &ConfirmationHandler{service: service}
}

// ThankYou renders the post-checkout confirmation for a Stripe session. The
// entitlement is written by the webhook, which can land after the browser
// redirect, so 404 here means "retry", not "never existed".
func (h *ConfirmationHandler) ThankYou(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CONFIRMATIONS_SERVICE_UNAVAILABLE", "confirmations service is unavailable")
		return
	}

	confirmation, err := h.service.ByCheckoutSession(r.Context(), r.URL.Query().Get("session_id"))
	if err != nil {
		handleConfirmationError(w, err)
		return
	}

	writeConfirmation(w, confirmation)
}

// PaystackConfirmation renders the post-checkout confirmation for a Paystack
// payment reference.
func (h *ConfirmationHandler) PaystackConfirmation(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CONFIRMATIONS_SERVICE_UNAVAILABLE", "confirmations service is unavailable")
		return
	}

	confirmation, err := h.service.ByPaymentReference(r.Context(), r.URL.Query().Get("reference"))
	if err != nil {
		handleConfirmationError(w, err)
		return
	}

	writeConfirmation(w, confirmation)
}

func writeConfirmation(w http.ResponseWriter, confirmation confsvc.Confirmation) {
	httperrors.Write(w, http.StatusOK, dto.ConfirmationResponse{
		Name:       confirmation.Name,
		Email:      confirmation.Email,
		DocumentID: confirmation.DocumentID,
	})
}

func handleConfirmationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, confsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "missing payment identifier")
	case errors.Is(err, confsvc.ErrNotFound):
		writeNotFound(w, "ENTITLEMENT_NOT_FOUND", "entitlement not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to load confirmation")
	}
}
