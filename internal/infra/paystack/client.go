package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/config"
)

var ErrVerificationFailed = errors.New("paystack verification failed")

// Client calls the Paystack REST API. Only transaction verification is
// needed here; webhook authenticity is checked locally via HMAC.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

type Customer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type Verification struct {
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
	Amount    int64    `json:"amount"`
	Customer  Customer `json:"customer"`
}

type verifyResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	Data    Verification `json:"data"`
}

func NewClient(cfg config.PaystackConfig, httpClient *http.Client) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		secretKey:  cfg.SecretKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// VerifyTransaction resolves a payment reference via the Paystack
// transaction verify endpoint.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (Verification, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return Verification{}, fmt.Errorf("reference is required")
	}

	endpoint := c.baseURL + "/transaction/verify/" + url.PathEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Verification{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Verification{}, fmt.Errorf("verify transaction: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Verification{}, fmt.Errorf("read verify response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Verification{}, fmt.Errorf("verify transaction: unexpected status %d: %w", resp.StatusCode, ErrVerificationFailed)
	}

	var parsed verifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Verification{}, fmt.Errorf("decode verify response: %w", err)
	}
	if !parsed.Status {
		return Verification{}, fmt.Errorf("verify transaction: %s: %w", parsed.Message, ErrVerificationFailed)
	}

	return parsed.Data, nil
}
