package paystack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/config"
	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/infra/httpclient"
)

func TestVerifySignatureMatches(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success","data":{"reference":"ref-1"}}`)

	header := Signature(secret, body)
	if !VerifySignature(secret, body, header) {
		t.Fatalf("expected signature to verify")
	}
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success"}`)
	header := Signature(secret, body)

	if VerifySignature(secret, []byte(`{"event":"charge.failed"}`), header) {
		t.Fatalf("tampered body must not verify")
	}
	if VerifySignature("sk_other_secret", body, header) {
		t.Fatalf("wrong secret must not verify")
	}
	if VerifySignature(secret, body, "") {
		t.Fatalf("empty header must not verify")
	}
}

func TestVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/ref-42" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk_test_key" {
			t.Fatalf("unexpected authorization header: %s", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": "success",
				"reference": "ref-42",
				"amount": 500000,
				"customer": {"email": "buyer@example.com", "first_name": "Ada", "last_name": "Obi"}
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(config.PaystackConfig{
		SecretKey: "sk_test_key",
		BaseURL:   srv.URL,
	}, httpclient.New(2*time.Second))

	v, err := client.VerifyTransaction(context.Background(), "ref-42")
	if err != nil {
		t.Fatalf("verify transaction: %v", err)
	}
	if v.Status != "success" || v.Customer.Email != "buyer@example.com" {
		t.Fatalf("unexpected verification: %+v", v)
	}
}

func TestVerifyTransactionUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(config.PaystackConfig{
		SecretKey: "sk_test_key",
		BaseURL:   srv.URL,
	}, httpclient.New(2*time.Second))

	if _, err := client.VerifyTransaction(context.Background(), "ref-err"); err == nil {
		t.Fatalf("expected upstream failure")
	}
}

func TestVerifyTransactionDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": false, "message": "Invalid reference"}`))
	}))
	defer srv.Close()

	client := NewClient(config.PaystackConfig{
		SecretKey: "sk_test_key",
		BaseURL:   srv.URL,
	}, httpclient.New(2*time.Second))

	if _, err := client.VerifyTransaction(context.Background(), "ref-bad"); err == nil {
		t.Fatalf("expected declined verification error")
	}
}
