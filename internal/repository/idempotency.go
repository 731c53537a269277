package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// IdempotencyRecord mirrors one row of idempotency_keys.
type IdempotencyRecord struct {
	IdempotencyKey string
	RequestHash    string
	Method         string
	Path           string
	ResponseStatus int32
	ResponseBody   []byte
	ContentType    string
	InProgress     bool
	CreatedAt      time.Time
}

func (r *Repository) GetIdempotencyKey(ctx context.Context, key string) (*IdempotencyRecord, error) {
	rec := &IdempotencyRecord{}
	query := `SELECT idempotency_key, request_hash, method, path, response_status,
			COALESCE(response_body, ''::bytea), COALESCE(content_type, ''), in_progress, created_at
		FROM idempotency_keys WHERE idempotency_key = $1`
	err := r.db.QueryRow(ctx, query, key).Scan(&rec.IdempotencyKey, &rec.RequestHash, &rec.Method,
		&rec.Path, &rec.ResponseStatus, &rec.ResponseBody, &rec.ContentType, &rec.InProgress, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pgx.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}
	return rec, nil
}

// ReserveIdempotencyKey claims a key for a first-seen request. Returns false
// when another request already holds it.
func (r *Repository) ReserveIdempotencyKey(ctx context.Context, key, requestHash, method, path string) (bool, error) {
	query := `INSERT INTO idempotency_keys (idempotency_key, request_hash, method, path, response_status, in_progress, created_at)
		VALUES ($1, $2, $3, $4, 0, TRUE, NOW())
		ON CONFLICT (idempotency_key) DO NOTHING`
	tag, err := r.db.Exec(ctx, query, key, requestHash, method, path)
	if err != nil {
		return false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) FinalizeIdempotencyKey(ctx context.Context, key string, status int, body []byte, contentType string) (int64, error) {
	query := `UPDATE idempotency_keys
		SET response_status = $1, response_body = $2, content_type = $3, in_progress = FALSE
		WHERE idempotency_key = $4`
	tag, err := r.db.Exec(ctx, query, status, body, contentType, key)
	if err != nil {
		return 0, fmt.Errorf("failed to finalize idempotency key: %w", err)
	}
	return tag.RowsAffected(), nil
}

// PurgeExpiredIdempotencyKeys removes keys older than ttl.
func (r *Repository) PurgeExpiredIdempotencyKeys(ctx context.Context, ttl time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM idempotency_keys WHERE created_at < NOW() - $1::interval`, ttl.String())
	if err != nil {
		return 0, fmt.Errorf("failed to purge idempotency keys: %w", err)
	}
	return tag.RowsAffected(), nil
}
