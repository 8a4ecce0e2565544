package handlers

import (
	"errors"
	"net/http"
	"strings"

	pgrepo "github.com/Janibulhoqsiam/stripe-webhook-render/internal/repo/postgres"
	entsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/entitlements"
	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/dto"
	httperrors "github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/errors"
)

type UserHandler struct {
	entitlements *entsvc.Service
}

func NewUserHandler(entitlements *entsvc.Service) *UserHandler {
	return &UserHandler{entitlements: entitlements}
}

// CreateDummyUser provisions an entitlement directly, bypassing the payment
// providers. The caller supplies the document ID and the device token the
// record is bound to.
func (h *UserHandler) CreateDummyUser(w http.ResponseWriter, r *http.Request) {
	if h.entitlements == nil {
		writeInternal(w, "ENTITLEMENTS_SERVICE_UNAVAILABLE", "entitlements service is unavailable")
		return
	}

	var req dto.CreateDummyUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Token) == "" || strings.TrimSpace(req.CustomID) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "email, token and customId are required")
		return
	}

	rec, err := h.entitlements.CreateWithID(r.Context(), req.Email, req.Token, req.CustomID)
	if err != nil {
		switch {
		case errors.Is(err, entsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "email, token and customId are required")
		case errors.Is(err, pgrepo.ErrDocumentIDConflict):
			httperrors.Write(w, http.StatusConflict, httperrors.APIError{
				Code:    "DOCUMENT_ID_CONFLICT",
				Message: "an entitlement with this customId already exists",
			})
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create user")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CreateDummyUserResponse{
		Email:      rec.Email,
		DocumentID: rec.DocumentID,
		ExpiresAt:  rec.ExpiresAt,
		IsTrial:    rec.IsTrial,
	})
}
