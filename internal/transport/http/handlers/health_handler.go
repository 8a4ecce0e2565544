package handlers

import (
	"net/http"

	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/dto"
	httperrors "github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/errors"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Ping(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, dto.PingResponse{OK: true})
}
