package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrEntitlementNotFound = errors.New("entitlement not found")
	ErrDocumentIDConflict  = errors.New("document id already exists")
)

type EntitlementRepo struct {
	pool *pgxpool.Pool
}

// EntitlementRecord is a stored access grant. Records are append-only: the
// service never updates or deletes them, and duplicate emails are allowed.
type EntitlementRecord struct {
	ID         int64
	DocumentID string
	Email      string
	DeviceID   string
	ExpiresAt  int64
	IsRadioOff bool
	IsTrial    bool
	CreatedAt  time.Time
}

func NewEntitlementRepo(pool *pgxpool.Pool) *EntitlementRepo {
	return &EntitlementRepo{pool: pool}
}

// Create inserts a new entitlement. When documentID is empty a UUID is
// generated; a caller-supplied documentID must be unique.
func (r *EntitlementRepo) Create(ctx context.Context, rec EntitlementRecord, documentID string) (EntitlementRecord, error) {
	if r.pool == nil {
		return EntitlementRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(rec.Email) == "" {
		return EntitlementRecord{}, fmt.Errorf("entitlement email is required")
	}

	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		documentID = uuid.NewString()
	}

	var stored EntitlementRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO entitlements (
	document_id,
	email,
	device_id,
	expires_at,
	is_radio_off,
	is_trial,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, NOW())
RETURNING id, document_id, email, device_id, expires_at, is_radio_off, is_trial, created_at
`, documentID, rec.Email, rec.DeviceID, rec.ExpiresAt, rec.IsRadioOff, rec.IsTrial).Scan(
		&stored.ID,
		&stored.DocumentID,
		&stored.Email,
		&stored.DeviceID,
		&stored.ExpiresAt,
		&stored.IsRadioOff,
		&stored.IsTrial,
		&stored.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return EntitlementRecord{}, ErrDocumentIDConflict
		}
		return EntitlementRecord{}, fmt.Errorf("create entitlement: %w", err)
	}

	return stored, nil
}

// FindByEmail returns the oldest entitlement for the email. Emails are not
// unique, so this is a first-write-wins lookup over insertion order.
func (r *EntitlementRepo) FindByEmail(ctx context.Context, email string) (EntitlementRecord, error) {
	if r.pool == nil {
		return EntitlementRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(email) == "" {
		return EntitlementRecord{}, fmt.Errorf("email is required")
	}

	rec, err := scanEntitlement(r.pool.QueryRow(ctx, `
SELECT id, document_id, email, device_id, expires_at, is_radio_off, is_trial, created_at
FROM entitlements
WHERE email = $1
ORDER BY id ASC
LIMIT 1
`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EntitlementRecord{}, ErrEntitlementNotFound
		}
		return EntitlementRecord{}, fmt.Errorf("find entitlement by email: %w", err)
	}

	return rec, nil
}

func (r *EntitlementRepo) FindByDocumentID(ctx context.Context, documentID string) (EntitlementRecord, error) {
	if r.pool == nil {
		return EntitlementRecord{}, fmt.Errorf("postgres pool is nil")
	}
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return EntitlementRecord{}, fmt.Errorf("document id is required")
	}

	rec, err := scanEntitlement(r.pool.QueryRow(ctx, `
SELECT id, document_id, email, device_id, expires_at, is_radio_off, is_trial, created_at
FROM entitlements
WHERE document_id = $1
LIMIT 1
`, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EntitlementRecord{}, ErrEntitlementNotFound
		}
		return EntitlementRecord{}, fmt.Errorf("find entitlement by document id: %w", err)
	}

	return rec, nil
}

func scanEntitlement(row pgx.Row) (EntitlementRecord, error) {
	var rec EntitlementRecord
	if err := row.Scan(
		&rec.ID,
		&rec.DocumentID,
		&rec.Email,
		&rec.DeviceID,
		&rec.ExpiresAt,
		&rec.IsRadioOff,
		&rec.IsTrial,
		&rec.CreatedAt,
	); err != nil {
		return EntitlementRecord{}, err
	}
	return rec, nil
}
