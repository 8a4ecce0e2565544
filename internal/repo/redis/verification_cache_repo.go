package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const verificationPrefix = "paystack_verify:"

// VerificationCacheRepo caches Paystack transaction verification results by
// payment reference. The confirmation page is reached via a browser redirect
// and clients retry it, so repeated lookups should not hit the provider.
type VerificationCacheRepo struct {
	client *goredis.Client
	ttl    time.Duration
}

type VerificationEntry struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func NewVerificationCacheRepo(client *goredis.Client, ttl time.Duration) *VerificationCacheRepo {
	return &VerificationCacheRepo{client: client, ttl: ttl}
}

func (r *VerificationCacheRepo) Get(ctx context.Context, reference string) (VerificationEntry, bool, error) {
	if r.client == nil {
		return VerificationEntry{}, false, nil
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return VerificationEntry{}, false, fmt.Errorf("reference is required")
	}

	raw, err := r.client.Get(ctx, verificationKey(reference)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return VerificationEntry{}, false, nil
		}
		return VerificationEntry{}, false, fmt.Errorf("get verification cache: %w", err)
	}

	var entry VerificationEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return VerificationEntry{}, false, fmt.Errorf("decode verification cache entry: %w", err)
	}

	return entry, true, nil
}

func (r *VerificationCacheRepo) Set(ctx context.Context, entry VerificationEntry) error {
	if r.client == nil {
		return nil
	}
	if strings.TrimSpace(entry.Reference) == "" {
		return fmt.Errorf("reference is required")
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode verification cache entry: %w", err)
	}

	ttl := r.ttl
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	if err := r.client.Set(ctx, verificationKey(entry.Reference), raw, ttl).Err(); err != nil {
		return fmt.Errorf("set verification cache: %w", err)
	}

	return nil
}

func verificationKey(reference string) string {
	return verificationPrefix + reference
}
