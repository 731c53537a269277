package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/profitbridge/platform-api/internal/models"
)

// InvestmentRow is an investment joined with the owner's email for admin listings.
type InvestmentRow struct {
	models.Investment
	UserEmail string `json:"user_email"`
}

// daily_rate round-trips as text: pgx has no native NUMERIC -> decimal.Decimal
// mapping without an extra adapter module.
func (r *Repository) CreateInvestment(ctx context.Context, inv *models.Investment) error {
	query := `INSERT INTO investments (id, user_id, plan_id, amount_micros, status, daily_rate,
			duration_days, accrued_micros, last_accrued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, NOW(), NOW(), NOW())
		RETURNING last_accrued_at, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, inv.ID, inv.UserID, inv.PlanID, inv.AmountMicros, inv.Status,
		inv.DailyRate.String(), inv.DurationDays, inv.AccruedMicros).
		Scan(&inv.LastAccruedAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

func scanInvestment(row pgx.Row, inv *models.Investment, extra ...any) error {
	var rate string
	dest := []any{&inv.ID, &inv.UserID, &inv.PlanID, &inv.AmountMicros, &inv.Status, &rate,
		&inv.DurationDays, &inv.AccruedMicros, &inv.LastAccruedAt, &inv.CreatedAt, &inv.UpdatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return fmt.Errorf("invalid daily_rate %q: %w", rate, err)
	}
	inv.DailyRate = parsed
	return nil
}

const investmentColumns = `id, user_id, plan_id, amount_micros, status, daily_rate::text,
	duration_days, accrued_micros, last_accrued_at, created_at, updated_at`

func (r *Repository) GetInvestment(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	inv := &models.Investment{}
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`
	if err := scanInvestment(r.db.QueryRow(ctx, query, id), inv); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return inv, nil
}

// SumInvestmentsByUser totals a user's investments regardless of status,
// feeding the dashboard's total_investments figure.
func (r *Repository) SumInvestmentsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_micros), 0) FROM investments WHERE user_id = $1`, userID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum investments: %w", err)
	}
	return sum, nil
}

func (r *Repository) ListInvestmentsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Investment, error) {
	query := `SELECT ` + investmentColumns + `
		FROM investments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	var investments []models.Investment
	for rows.Next() {
		var inv models.Investment
		if err := scanInvestment(rows, &inv); err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

// ListInvestments returns the admin view: filtered first, then paginated.
func (r *Repository) ListInvestments(ctx context.Context, emailFilter, statusFilter string, limit, offset int) ([]InvestmentRow, error) {
	query := `SELECT i.id, i.user_id, i.plan_id, i.amount_micros, i.status, i.daily_rate::text,
			i.duration_days, i.accrued_micros, i.created_at, i.updated_at, p.email
		FROM investments i
		JOIN profiles p ON p.id = i.user_id
		WHERE ($1 = '' OR p.email ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR i.status = $2)
		ORDER BY i.created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, emailFilter, statusFilter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	var out []InvestmentRow
	for rows.Next() {
		var row InvestmentRow
		if err := scanInvestment(rows, &row.Investment, &row.UserEmail); err != nil {
			return nil, fmt.Errorf("failed to scan investment row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) DeleteInvestment(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete investment: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ClaimActiveInvestments locks a batch of active investments due for accrual.
// The last_accrued_at watermark admits each row at most once per day, so
// repeated passes within a tick drain the backlog and then come up empty;
// SKIP LOCKED keeps concurrent worker instances off each other's rows.
func (r *Repository) ClaimActiveInvestments(ctx context.Context, limit int32) ([]models.Investment, error) {
	query := `SELECT ` + investmentColumns + `
		FROM investments
		WHERE status = 'active'
		  AND last_accrued_at <= NOW() - INTERVAL '24 hours'
		ORDER BY last_accrued_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim active investments: %w", err)
	}
	defer rows.Close()

	var investments []models.Investment
	for rows.Next() {
		var inv models.Investment
		if err := scanInvestment(rows, &inv); err != nil {
			return nil, fmt.Errorf("failed to scan claimed investment: %w", err)
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func (r *Repository) AddAccrued(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE investments
			SET accrued_micros = accrued_micros + $1, last_accrued_at = NOW(), updated_at = NOW()
			WHERE id = $2`,
		amountMicros, id)
	if err != nil {
		return 0, fmt.Errorf("failed to add accrued amount: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) CompleteInvestment(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE investments SET status = 'completed', updated_at = NOW() WHERE id = $1 AND status = 'active'`,
		id)
	if err != nil {
		return 0, fmt.Errorf("failed to complete investment: %w", err)
	}
	return tag.RowsAffected(), nil
}
