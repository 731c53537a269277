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

func (r *Repository) CreatePlan(ctx context.Context, p *models.InvestmentPlan) error {
	query := `INSERT INTO investment_plans (id, name, daily_rate, duration_days, min_amount_micros, created_at)
		VALUES ($1, $2, $3::numeric, $4, $5, NOW())
		RETURNING created_at`
	err := r.db.QueryRow(ctx, query, p.ID, p.Name, p.DailyRate.String(), p.DurationDays, p.MinAmountMicros).
		Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *Repository) GetPlan(ctx context.Context, id uuid.UUID) (*models.InvestmentPlan, error) {
	p := &models.InvestmentPlan{}
	var rate string
	query := `SELECT id, name, daily_rate::text, duration_days, min_amount_micros, created_at
		FROM investment_plans WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &rate, &p.DurationDays, &p.MinAmountMicros, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid daily_rate %q: %w", rate, err)
	}
	p.DailyRate = parsed
	return p, nil
}

func (r *Repository) ListPlans(ctx context.Context) ([]models.InvestmentPlan, error) {
	query := `SELECT id, name, daily_rate::text, duration_days, min_amount_micros, created_at
		FROM investment_plans ORDER BY min_amount_micros`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []models.InvestmentPlan
	for rows.Next() {
		var p models.InvestmentPlan
		var rate string
		if err := rows.Scan(&p.ID, &p.Name, &rate, &p.DurationDays, &p.MinAmountMicros, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		parsed, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("invalid daily_rate %q: %w", rate, err)
		}
		p.DailyRate = parsed
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *Repository) UpdatePlan(ctx context.Context, p *models.InvestmentPlan) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE investment_plans SET name = $1, daily_rate = $2::numeric, duration_days = $3, min_amount_micros = $4
		 WHERE id = $5`,
		p.Name, p.DailyRate.String(), p.DurationDays, p.MinAmountMicros, p.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update plan: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) DeletePlan(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM investment_plans WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete plan: %w", err)
	}
	return tag.RowsAffected(), nil
}
