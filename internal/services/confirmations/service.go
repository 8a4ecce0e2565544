package confirmations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stripelib "github.com/stripe/stripe-go/v82"

	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/infra/paystack"
	pgrepo "github.com/Janibulhoqsiam/stripe-webhook-render/internal/repo/postgres"
	redrepo "github.com/Janibulhoqsiam/stripe-webhook-render/internal/repo/redis"
	entsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/entitlements"
)

var (
	ErrValidation = errors.New("validation error")
	// ErrNotFound covers both an unknown payment and an entitlement that the
	// webhook has not written yet; the client is expected to retry.
	ErrNotFound = errors.New("entitlement not found")
)

// SessionSource fetches a checkout session by ID. Satisfied by the Stripe
// infra client.
type SessionSource interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripelib.CheckoutSession, error)
}

// ReferenceVerifier resolves a payment reference. Satisfied by the Paystack
// infra client.
type ReferenceVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (paystack.Verification, error)
}

// VerificationCache stores verification results between client retries.
// Satisfied by the Redis verification cache repo.
type VerificationCache interface {
	Get(ctx context.Context, reference string) (redrepo.VerificationEntry, bool, error)
	Set(ctx context.Context, entry redrepo.VerificationEntry) error
}

// EntitlementSource looks up the entitlement the webhook created. Satisfied
// by the entitlements service.
type EntitlementSource interface {
	FindByEmail(ctx context.Context, email string) (pgrepo.EntitlementRecord, error)
}

type Service struct {
	sessions     SessionSource
	verifier     ReferenceVerifier
	cache        VerificationCache
	entitlements EntitlementSource
}

type Dependencies struct {
	Sessions     SessionSource
	Verifier     ReferenceVerifier
	Cache        VerificationCache
	Entitlements EntitlementSource
}

// Confirmation is what the post-purchase screen renders.
type Confirmation struct {
	Name       string
	Email      string
	DocumentID string
}

func NewService(deps Dependencies) *Service {
	return &Service{
		sessions:     deps.Sessions,
		verifier:     deps.Verifier,
		cache:        deps.Cache,
		entitlements: deps.Entitlements,
	}
}

// ByCheckoutSession resolves a Stripe checkout session to the entitlement
// created by the corresponding webhook. The webhook fires asynchronously
// relative to the browser redirect, so "not found yet" is a normal state the
// client retries through.
func (s *Service) ByCheckoutSession(ctx context.Context, sessionID string) (Confirmation, error) {
	if s.sessions == nil || s.entitlements == nil {
		return Confirmation{}, fmt.Errorf("confirmation dependencies are not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Confirmation{}, ErrValidation
	}

	session, err := s.sessions.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return Confirmation{}, fmt.Errorf("lookup checkout session: %w", err)
	}

	var email, name string
	if session.CustomerDetails != nil {
		email = strings.TrimSpace(session.CustomerDetails.Email)
		name = session.CustomerDetails.Name
	}
	if email == "" {
		return Confirmation{}, ErrNotFound
	}

	rec, err := s.entitlements.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entsvc.ErrNotFound) {
			return Confirmation{}, ErrNotFound
		}
		return Confirmation{}, err
	}

	return Confirmation{
		Name:       name,
		Email:      rec.Email,
		DocumentID: rec.DocumentID,
	}, nil
}

// ByPaymentReference verifies a Paystack payment reference and resolves the
// entitlement by the returned customer email. Verification results are cached
// so client retries do not repeat the provider call.
func (s *Service) ByPaymentReference(ctx context.Context, reference string) (Confirmation, error) {
	if s.verifier == nil || s.entitlements == nil {
		return Confirmation{}, fmt.Errorf("confirmation dependencies are not configured")
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return Confirmation{}, ErrValidation
	}

	entry, err := s.verifiedEntry(ctx, reference)
	if err != nil {
		return Confirmation{}, err
	}

	if !strings.EqualFold(entry.Status, "success") || entry.Email == "" {
		return Confirmation{}, ErrNotFound
	}

	rec, err := s.entitlements.FindByEmail(ctx, entry.Email)
	if err != nil {
		if errors.Is(err, entsvc.ErrNotFound) {
			return Confirmation{}, ErrNotFound
		}
		return Confirmation{}, err
	}

	return Confirmation{
		Name:       strings.TrimSpace(entry.FirstName + " " + entry.LastName),
		Email:      rec.Email,
		DocumentID: rec.DocumentID,
	}, nil
}

func (s *Service) verifiedEntry(ctx context.Context, reference string) (redrepo.VerificationEntry, error) {
	if s.cache != nil {
		if entry, found, err := s.cache.Get(ctx, reference); err == nil && found {
			return entry, nil
		}
	}

	verification, err := s.verifier.VerifyTransaction(ctx, reference)
	if err != nil {
		return redrepo.VerificationEntry{}, fmt.Errorf("verify payment reference: %w", err)
	}

	entry := redrepo.VerificationEntry{
		Reference: reference,
		Status:    verification.Status,
		Email:     strings.TrimSpace(verification.Customer.Email),
		FirstName: verification.Customer.FirstName,
		LastName:  verification.Customer.LastName,
	}

	if s.cache != nil {
		// Cache failures only cost an extra provider call on retry.
		_ = s.cache.Set(ctx, entry)
	}

	return entry, nil
}
