package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/config"
	confsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/confirmations"
	entsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/entitlements"
	paymentsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/payments"
	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/transport/http/handlers"
)

type Dependencies struct {
	EntitlementService  *entsvc.Service
	PaymentService      *paymentsvc.Service
	ConfirmationService *confsvc.Service
	Logger              *zap.Logger
	Config              config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	webhookHandler := handlers.NewWebhookHandler(
		deps.PaymentService,
		deps.Config.Stripe.WebhookSecret,
		deps.Config.Paystack.SecretKey,
		deps.Logger,
	)
	confirmationHandler := handlers.NewConfirmationHandler(deps.ConfirmationService)
	checkoutHandler := handlers.NewCheckoutHandler(deps.PaymentService)
	userHandler := handlers.NewUserHandler(deps.EntitlementService)

	r.Get("/ping", healthHandler.Ping)
	r.Post("/webhook", webhookHandler.Stripe)
	r.Post("/paystack-style-webhook", webhookHandler.Paystack)
	r.Get("/thank-you", confirmationHandler.ThankYou)
	r.Get("/paystack-confirmation", confirmationHandler.PaystackConfirmation)
	r.Post("/create-trial-subscription", checkoutHandler.CreateTrialSubscription)
	if deps.Config.Admin.EnableDummyUsers {
		r.Post("/create-dummy-user", userHandler.CreateDummyUser)
	}
}
