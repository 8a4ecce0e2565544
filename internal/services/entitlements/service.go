package entitlements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pgrepo "github.com/Janibulhoqsiam/stripe-webhook-render/internal/repo/postgres"
)

const secondsPerDay = 86400

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("entitlement not found")
)

// Store is the persistence contract for entitlements. Creation is
// append-only; records are never updated or deleted here.
type Store interface {
	Create(ctx context.Context, rec pgrepo.EntitlementRecord, documentID string) (pgrepo.EntitlementRecord, error)
	FindByEmail(ctx context.Context, email string) (pgrepo.EntitlementRecord, error)
}

type Service struct {
	store  Store
	policy DurationPolicy
	now    func() time.Time
}

func NewService(store Store, policy DurationPolicy) *Service {
	if policy == nil {
		policy = SubstringPolicy{}
	}
	return &Service{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

// Grant derives and persists an entitlement for a paid purchase. The
// descriptor decides the duration; email is the lookup key and must be
// present. Every call appends a new record, replayed events included.
func (s *Service) Grant(ctx context.Context, email, descriptor string) (pgrepo.EntitlementRecord, error) {
	if s.store == nil {
		return pgrepo.EntitlementRecord{}, fmt.Errorf("entitlement store is nil")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return pgrepo.EntitlementRecord{}, ErrValidation
	}

	grant := s.policy.Classify(descriptor)

	rec := pgrepo.EntitlementRecord{
		Email:      email,
		DeviceID:   "",
		ExpiresAt:  s.now().Unix() + int64(grant.Days)*secondsPerDay,
		IsRadioOff: false,
		IsTrial:    grant.Trial,
	}

	stored, err := s.store.Create(ctx, rec, "")
	if err != nil {
		return pgrepo.EntitlementRecord{}, fmt.Errorf("persist entitlement: %w", err)
	}

	return stored, nil
}

// CreateWithID persists an entitlement under a caller-supplied document ID,
// binding the supplied device token. Used by the manual creation endpoint;
// the grant gets the default duration.
func (s *Service) CreateWithID(ctx context.Context, email, deviceID, documentID string) (pgrepo.EntitlementRecord, error) {
	if s.store == nil {
		return pgrepo.EntitlementRecord{}, fmt.Errorf("entitlement store is nil")
	}
	email = strings.TrimSpace(email)
	documentID = strings.TrimSpace(documentID)
	if email == "" || documentID == "" {
		return pgrepo.EntitlementRecord{}, ErrValidation
	}

	grant := s.policy.Classify("")

	rec := pgrepo.EntitlementRecord{
		Email:      email,
		DeviceID:   deviceID,
		ExpiresAt:  s.now().Unix() + int64(grant.Days)*secondsPerDay,
		IsRadioOff: false,
		IsTrial:    grant.Trial,
	}

	stored, err := s.store.Create(ctx, rec, documentID)
	if err != nil {
		return pgrepo.EntitlementRecord{}, fmt.Errorf("persist entitlement: %w", err)
	}

	return stored, nil
}

// FindByEmail returns the first entitlement stored for the email, in
// insertion order.
func (s *Service) FindByEmail(ctx context.Context, email string) (pgrepo.EntitlementRecord, error) {
	if s.store == nil {
		return pgrepo.EntitlementRecord{}, fmt.Errorf("entitlement store is nil")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return pgrepo.EntitlementRecord{}, ErrValidation
	}

	rec, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrEntitlementNotFound) {
			return pgrepo.EntitlementRecord{}, ErrNotFound
		}
		return pgrepo.EntitlementRecord{}, err
	}

	return rec, nil
}
