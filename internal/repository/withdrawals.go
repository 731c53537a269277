package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/profitbridge/platform-api/internal/models"
)

// WithdrawalRow is a withdrawal joined with the owner's email for admin listings.
type WithdrawalRow struct {
	models.Withdrawal
	UserEmail string `json:"user_email"`
}

func (r *Repository) CreateWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	query := `INSERT INTO withdrawals (id, user_id, amount_micros, currency, wallet_address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query, w.ID, w.UserID, w.AmountMicros, w.Currency, w.WalletAddress, w.Status).
		Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *Repository) GetWithdrawal(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	w := &models.Withdrawal{}
	query := `SELECT id, user_id, amount_micros, currency, wallet_address, status, created_at, updated_at
		FROM withdrawals WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&w.ID, &w.UserID, &w.AmountMicros, &w.Currency,
		&w.WalletAddress, &w.Status, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	return w, nil
}

func (r *Repository) GetWithdrawalForUpdate(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	w := &models.Withdrawal{}
	query := `SELECT id, user_id, amount_micros, currency, wallet_address, status, created_at, updated_at
		FROM withdrawals WHERE id = $1 FOR UPDATE`
	err := r.db.QueryRow(ctx, query, id).Scan(&w.ID, &w.UserID, &w.AmountMicros, &w.Currency,
		&w.WalletAddress, &w.Status, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock withdrawal: %w", err)
	}
	return w, nil
}

// SumWithdrawalsByStatus totals a user's withdrawals in the given status.
// Feeds the derived pending_withdrawals value.
func (r *Repository) SumWithdrawalsByStatus(ctx context.Context, userID uuid.UUID, status string) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_micros), 0) FROM withdrawals WHERE user_id = $1 AND status = $2`,
		userID, status).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum withdrawals: %w", err)
	}
	return sum, nil
}

func (r *Repository) ListWithdrawalsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	query := `SELECT id, user_id, amount_micros, currency, wallet_address, status, created_at, updated_at
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer rows.Close()

	var withdrawals []models.Withdrawal
	for rows.Next() {
		var w models.Withdrawal
		if err := rows.Scan(&w.ID, &w.UserID, &w.AmountMicros, &w.Currency, &w.WalletAddress,
			&w.Status, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

// ListWithdrawals returns the admin view: filtered first, then paginated.
func (r *Repository) ListWithdrawals(ctx context.Context, emailFilter, statusFilter string, limit, offset int) ([]WithdrawalRow, error) {
	query := `SELECT w.id, w.user_id, w.amount_micros, w.currency, w.wallet_address, w.status,
			w.created_at, w.updated_at, p.email
		FROM withdrawals w
		JOIN profiles p ON p.id = w.user_id
		WHERE ($1 = '' OR p.email ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR w.status = $2)
		ORDER BY w.created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, emailFilter, statusFilter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	defer rows.Close()

	var out []WithdrawalRow
	for rows.Next() {
		var row WithdrawalRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.AmountMicros, &row.Currency, &row.WalletAddress,
			&row.Status, &row.CreatedAt, &row.UpdatedAt, &row.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateWithdrawalStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE withdrawals SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update withdrawal status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) DeleteWithdrawal(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM withdrawals WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete withdrawal: %w", err)
	}
	return tag.RowsAffected(), nil
}
