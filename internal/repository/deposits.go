package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/profitbridge/platform-api/internal/models"
)

// DepositRow is a deposit joined with the owner's email for admin listings.
type DepositRow struct {
	models.Deposit
	UserEmail string `json:"user_email"`
}

func (r *Repository) CreateDeposit(ctx context.Context, d *models.Deposit) error {
	query := `INSERT INTO deposits (id, user_id, amount_micros, currency, tx_ref, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query, d.ID, d.UserID, d.AmountMicros, d.Currency, d.TxRef, d.Status).
		Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create deposit: %w", err)
	}
	return nil
}

func (r *Repository) GetDeposit(ctx context.Context, id uuid.UUID) (*models.Deposit, error) {
	d := &models.Deposit{}
	query := `SELECT id, user_id, amount_micros, currency, tx_ref, status, created_at, updated_at
		FROM deposits WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&d.ID, &d.UserID, &d.AmountMicros, &d.Currency,
		&d.TxRef, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return d, nil
}

// GetDepositForUpdate locks the row for a status transition.
func (r *Repository) GetDepositForUpdate(ctx context.Context, id uuid.UUID) (*models.Deposit, error) {
	d := &models.Deposit{}
	query := `SELECT id, user_id, amount_micros, currency, tx_ref, status, created_at, updated_at
		FROM deposits WHERE id = $1 FOR UPDATE`
	err := r.db.QueryRow(ctx, query, id).Scan(&d.ID, &d.UserID, &d.AmountMicros, &d.Currency,
		&d.TxRef, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock deposit: %w", err)
	}
	return d, nil
}

func (r *Repository) ListDepositsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Deposit, error) {
	query := `SELECT id, user_id, amount_micros, currency, tx_ref, status, created_at, updated_at
		FROM deposits
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer rows.Close()

	var deposits []models.Deposit
	for rows.Next() {
		var d models.Deposit
		if err := rows.Scan(&d.ID, &d.UserID, &d.AmountMicros, &d.Currency, &d.TxRef,
			&d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}

// ListDeposits returns the admin view: filtered first, then paginated.
func (r *Repository) ListDeposits(ctx context.Context, emailFilter, statusFilter string, limit, offset int) ([]DepositRow, error) {
	query := `SELECT d.id, d.user_id, d.amount_micros, d.currency, d.tx_ref, d.status,
			d.created_at, d.updated_at, p.email
		FROM deposits d
		JOIN profiles p ON p.id = d.user_id
		WHERE ($1 = '' OR p.email ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR d.status = $2)
		ORDER BY d.created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, emailFilter, statusFilter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	defer rows.Close()

	var out []DepositRow
	for rows.Next() {
		var row DepositRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.AmountMicros, &row.Currency, &row.TxRef,
			&row.Status, &row.CreatedAt, &row.UpdatedAt, &row.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan deposit row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateDepositStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE deposits SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update deposit status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) DeleteDeposit(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM deposits WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete deposit: %w", err)
	}
	return tag.RowsAffected(), nil
}
