package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/profitbridge/platform-api/internal/models"
)

const profileColumns = `id, full_name, email, password_hash, role, suspended, wallet_address,
	balance_micros, total_deposits_micros, total_withdrawals_micros, earnings_micros, created_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.PasswordHash, &p.Role, &p.Suspended,
		&p.WalletAddress, &p.Balance, &p.TotalDeposits, &p.TotalWithdrawals, &p.Earnings, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *Repository) CreateProfile(ctx context.Context, p *models.Profile) error {
	query := `INSERT INTO profiles (id, full_name, email, password_hash, role, suspended, wallet_address,
			balance_micros, total_deposits_micros, total_withdrawals_micros, earnings_micros, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING created_at`
	err := r.db.QueryRow(ctx, query, p.ID, p.FullName, p.Email, p.PasswordHash, p.Role, p.Suspended,
		p.WalletAddress, p.Balance, p.TotalDeposits, p.TotalWithdrawals, p.Earnings).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return p, nil
}

func (r *Repository) ListProfiles(ctx context.Context, emailFilter string, limit, offset int) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM profiles
		WHERE ($1 = '' OR email ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, emailFilter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.PasswordHash, &p.Role, &p.Suspended,
			&p.WalletAddress, &p.Balance, &p.TotalDeposits, &p.TotalWithdrawals, &p.Earnings, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *Repository) SetProfileSuspended(ctx context.Context, id uuid.UUID, suspended bool) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE profiles SET suspended = $1 WHERE id = $2`, suspended, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update suspended flag: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) UpdateProfileWallet(ctx context.Context, id uuid.UUID, walletAddress string) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE profiles SET wallet_address = $1 WHERE id = $2`, walletAddress, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update wallet address: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) UpdateProfilePassword(ctx context.Context, id uuid.UUID, passwordHash string) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE profiles SET password_hash = $1 WHERE id = $2`, passwordHash, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update password hash: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) DeleteProfile(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete profile: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DebitBalance subtracts amount from the profile balance only when the
// freshly-read balance covers it. Zero rows means insufficient funds.
func (r *Repository) DebitBalance(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET balance_micros = balance_micros - $1 WHERE id = $2 AND balance_micros >= $1`,
		amountMicros, id)
	if err != nil {
		return 0, fmt.Errorf("failed to debit balance: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) CreditBalance(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET balance_micros = balance_micros + $1 WHERE id = $2`,
		amountMicros, id)
	if err != nil {
		return 0, fmt.Errorf("failed to credit balance: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CreditDeposit applies an approved deposit: balance and the cumulative
// deposit total move together.
func (r *Repository) CreditDeposit(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles
		 SET balance_micros = balance_micros + $1,
		     total_deposits_micros = total_deposits_micros + $1
		 WHERE id = $2`,
		amountMicros, id)
	if err != nil {
		return 0, fmt.Errorf("failed to credit deposit: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) AddTotalWithdrawals(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET total_withdrawals_micros = total_withdrawals_micros + $1 WHERE id = $2`,
		amountMicros, id)
	if err != nil {
		return 0, fmt.Errorf("failed to add total withdrawals: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) CreditEarnings(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET earnings_micros = earnings_micros + $1 WHERE id = $2`,
		amountMicros, id)
	if err != nil {
		return 0, fmt.Errorf("failed to credit earnings: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountNegativeBalances supports the consistency sweep; the balance CHECK
// constraint should make this always zero.
func (r *Repository) CountNegativeBalances(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles WHERE balance_micros < 0`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count negative balances: %w", err)
	}
	return count, nil
}
