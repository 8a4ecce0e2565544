package entitlements

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	pgrepo "github.com/Janibulhoqsiam/stripe-webhook-render/internal/repo/postgres"
)

type storeStub struct {
	nextID  int64
	records []pgrepo.EntitlementRecord
}

func newStoreStub() *storeStub {
	return &storeStub{nextID: 1}
}

func (s *storeStub) Create(_ context.Context, rec pgrepo.EntitlementRecord, documentID string) (pgrepo.EntitlementRecord, error) {
	if strings.TrimSpace(documentID) == "" {
		documentID = uuid.NewString()
	}
	for _, existing := range s.records {
		if existing.DocumentID == documentID {
			return pgrepo.EntitlementRecord{}, pgrepo.ErrDocumentIDConflict
		}
	}

	rec.ID = s.nextID
	s.nextID++
	rec.DocumentID = documentID
	rec.CreatedAt = time.Now().UTC()
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *storeStub) FindByEmail(_ context.Context, email string) (pgrepo.EntitlementRecord, error) {
	for _, rec := range s.records {
		if rec.Email == email {
			return rec, nil
		}
	}
	return pgrepo.EntitlementRecord{}, pgrepo.ErrEntitlementNotFound
}

func TestGrantComputesExpiry(t *testing.T) {
	store := newStoreStub()
	svc := NewService(store, nil)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rec, err := svc.Grant(context.Background(), "a@x.com", "Year Plan")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}

	if rec.Email != "a@x.com" {
		t.Fatalf("unexpected email: %s", rec.Email)
	}
	if rec.IsTrial {
		t.Fatalf("year plan must not be a trial")
	}
	if rec.DeviceID != "" || rec.IsRadioOff {
		t.Fatalf("unexpected creation defaults: %+v", rec)
	}
	if want := now.Unix() + 365*86400; rec.ExpiresAt != want {
		t.Fatalf("unexpected expires_at: got %d want %d", rec.ExpiresAt, want)
	}
	if rec.DocumentID == "" {
		t.Fatalf("expected generated document id")
	}
}

func TestGrantTrialDescriptor(t *testing.T) {
	store := newStoreStub()
	svc := NewService(store, nil)

	rec, err := svc.Grant(context.Background(), "a@x.com", "7-day pass")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !rec.IsTrial {
		t.Fatalf("expected trial entitlement")
	}
}

func TestGrantRequiresEmail(t *testing.T) {
	store := newStoreStub()
	svc := NewService(store, nil)

	if _, err := svc.Grant(context.Background(), "  ", "30 Day Plan"); err != ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(store.records) != 0 {
		t.Fatalf("expected zero writes, got %d", len(store.records))
	}
}

func TestGrantIsNotDeduplicated(t *testing.T) {
	store := newStoreStub()
	svc := NewService(store, nil)

	for i := 0; i < 2; i++ {
		if _, err := svc.Grant(context.Background(), "replay@x.com", "30 Day Plan"); err != nil {
			t.Fatalf("grant %d: %v", i, err)
		}
	}

	// Replaying the same event appends a second record; there is no write
	// dedup, only first-match reads.
	if len(store.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(store.records))
	}
}

func TestFindByEmailReturnsFirstInsertion(t *testing.T) {
	store := newStoreStub()
	svc := NewService(store, nil)

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	if _, err := svc.Grant(context.Background(), "dup@x.com", "30 Day Plan"); err != nil {
		t.Fatalf("first grant: %v", err)
	}

	second := first.Add(48 * time.Hour)
	svc.now = func() time.Time { return second }
	if _, err := svc.Grant(context.Background(), "dup@x.com", "Year Plan"); err != nil {
		t.Fatalf("second grant: %v", err)
	}

	rec, err := svc.FindByEmail(context.Background(), "dup@x.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if want := first.Unix() + 30*86400; rec.ExpiresAt != want {
		t.Fatalf("expected first record, got expires_at %d want %d", rec.ExpiresAt, want)
	}
}

func TestFindByEmailNotFound(t *testing.T) {
	svc := NewService(newStoreStub(), nil)

	if _, err := svc.FindByEmail(context.Background(), "nobody@x.com"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateWithIDBindsDeviceToken(t *testing.T) {
	store := newStoreStub()
	svc := NewService(store, nil)

	rec, err := svc.CreateWithID(context.Background(), "dev@x.com", "device-token-1", "custom-42")
	if err != nil {
		t.Fatalf("create with id: %v", err)
	}
	if rec.DocumentID != "custom-42" {
		t.Fatalf("unexpected document id: %s", rec.DocumentID)
	}
	if rec.DeviceID != "device-token-1" {
		t.Fatalf("unexpected device id: %s", rec.DeviceID)
	}
	if rec.IsTrial {
		t.Fatalf("manual creation must use the default grant")
	}

	if _, err := svc.CreateWithID(context.Background(), "dev@x.com", "tok", "custom-42"); err == nil {
		t.Fatalf("expected document id conflict")
	}
}
