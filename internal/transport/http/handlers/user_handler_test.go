package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	entsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/entitlements"
)

func TestCreateDummyUser(t *testing.T) {
	store := &recordStoreStub{}
	h := NewUserHandler(entsvc.NewService(store, nil))

	body := `{"email":"tester@example.com","token":"device-abc","customId":"doc-custom"}`
	req := httptest.NewRequest(http.MethodPost, "/create-dummy-user", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateDummyUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if len(store.records) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(store.records))
	}
	rec := store.records[0]
	if rec.DeviceID != "device-abc" {
		t.Fatalf("expected device binding, got %q", rec.DeviceID)
	}
	if rec.DocumentID != "doc-custom" {
		t.Fatalf("unexpected document id: %q", rec.DocumentID)
	}

	var payload struct {
		DocumentID string `json:"documentId"`
		IsTrial    bool   `json:"isTrial"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.DocumentID != "doc-custom" {
		t.Fatalf("unexpected document id in response: %q", payload.DocumentID)
	}
	if payload.IsTrial {
		t.Fatalf("dummy user must get the default non-trial grant")
	}
}

func TestCreateDummyUserMissingFields(t *testing.T) {
	cases := map[string]string{
		"missing email":    `{"token":"device-abc","customId":"doc-1"}`,
		"missing token":    `{"email":"tester@example.com","customId":"doc-1"}`,
		"missing customId": `{"email":"tester@example.com","token":"device-abc"}`,
		"invalid body":     `not json`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			store := &recordStoreStub{}
			h := NewUserHandler(entsvc.NewService(store, nil))

			req := httptest.NewRequest(http.MethodPost, "/create-dummy-user", strings.NewReader(body))
			rr := httptest.NewRecorder()
			h.CreateDummyUser(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
			}
			if len(store.records) != 0 {
				t.Fatalf("expected no stored records, got %d", len(store.records))
			}
		})
	}
}
