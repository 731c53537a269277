package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Profile is the per-user financial record. Balance and the cumulative
// totals are BIGINT micros.
type Profile struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	Suspended        bool      `json:"suspended"`
	WalletAddress    string    `json:"wallet_address"`
	Balance          int64     `json:"balance_micros"`
	TotalDeposits    int64     `json:"total_deposits_micros"`
	TotalWithdrawals int64     `json:"total_withdrawals_micros"`
	Earnings         int64     `json:"earnings_micros"`
	CreatedAt        time.Time `json:"created_at"`
}

// Deposit is an append-only credit request. Balance is credited only once
// an admin approves it.
type Deposit struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	AmountMicros int64     `json:"amount_micros"`
	Currency     string    `json:"currency"`
	TxRef        string    `json:"tx_ref"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Withdrawal reserves funds at submission time: the profile balance is
// debited in the same transaction that inserts the row.
type Withdrawal struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	AmountMicros  int64     `json:"amount_micros"`
	Currency      string    `json:"currency"`
	WalletAddress string    `json:"wallet_address"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Investment carries the plan terms copied at creation time, so later plan
// edits never change an existing investment.
type Investment struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	PlanID        uuid.UUID       `json:"plan_id"`
	AmountMicros  int64           `json:"amount_micros"`
	Status        string          `json:"status"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	DurationDays  int             `json:"duration_days"`
	AccruedMicros int64           `json:"accrued_micros"`
	LastAccruedAt time.Time       `json:"last_accrued_at"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvestmentPlan is admin-edited reference data.
type InvestmentPlan struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	DailyRate       decimal.Decimal `json:"daily_rate"`
	DurationDays    int             `json:"duration_days"`
	MinAmountMicros int64           `json:"min_amount_micros"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Notification is a short message shown on the user's dashboard, written by
// moderation actions in the same transaction as the ledger change.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// SupportTicket is a user-filed help request. Admins flip it between open
// and closed; there is no reply thread on the ticket itself.
type SupportTicket struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is the derived, point-in-time view of a user's finances.
// PendingWithdrawals and TotalInvestments are recomputed on demand, never
// persisted.
type Snapshot struct {
	UserID             uuid.UUID `json:"user_id"`
	FullName           string    `json:"full_name"`
	Balance            int64     `json:"balance_micros"`
	TotalDeposits      int64     `json:"total_deposits_micros"`
	TotalWithdrawals   int64     `json:"total_withdrawals_micros"`
	Earnings           int64     `json:"earnings_micros"`
	PendingWithdrawals int64     `json:"pending_withdrawals_micros"`
	TotalInvestments   int64     `json:"total_investments_micros"`
}
