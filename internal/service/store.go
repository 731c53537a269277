package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/profitbridge/platform-api/internal/models"
	"github.com/profitbridge/platform-api/internal/repository"
)

// Querier is the data-access contract required by the flows. Implemented by
// *repository.Repository; mocked in tests.
type Querier interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	ListProfiles(ctx context.Context, emailFilter string, limit, offset int) ([]models.Profile, error)
	SetProfileSuspended(ctx context.Context, id uuid.UUID, suspended bool) (int64, error)
	UpdateProfileWallet(ctx context.Context, id uuid.UUID, walletAddress string) (int64, error)
	UpdateProfilePassword(ctx context.Context, id uuid.UUID, passwordHash string) (int64, error)
	DeleteProfile(ctx context.Context, id uuid.UUID) (int64, error)
	DebitBalance(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error)
	CreditBalance(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error)
	CreditDeposit(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error)
	AddTotalWithdrawals(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error)
	CreditEarnings(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error)
	CountNegativeBalances(ctx context.Context) (int64, error)

	CreateDeposit(ctx context.Context, d *models.Deposit) error
	GetDepositForUpdate(ctx context.Context, id uuid.UUID) (*models.Deposit, error)
	ListDepositsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Deposit, error)
	ListDeposits(ctx context.Context, emailFilter, statusFilter string, limit, offset int) ([]repository.DepositRow, error)
	UpdateDepositStatus(ctx context.Context, id uuid.UUID, status string) (int64, error)
	DeleteDeposit(ctx context.Context, id uuid.UUID) (int64, error)

	CreateWithdrawal(ctx context.Context, w *models.Withdrawal) error
	GetWithdrawalForUpdate(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error)
	SumWithdrawalsByStatus(ctx context.Context, userID uuid.UUID, status string) (int64, error)
	ListWithdrawalsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error)
	ListWithdrawals(ctx context.Context, emailFilter, statusFilter string, limit, offset int) ([]repository.WithdrawalRow, error)
	UpdateWithdrawalStatus(ctx context.Context, id uuid.UUID, status string) (int64, error)
	DeleteWithdrawal(ctx context.Context, id uuid.UUID) (int64, error)

	CreateInvestment(ctx context.Context, inv *models.Investment) error
	GetInvestment(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	SumInvestmentsByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	ListInvestmentsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Investment, error)
	ListInvestments(ctx context.Context, emailFilter, statusFilter string, limit, offset int) ([]repository.InvestmentRow, error)
	DeleteInvestment(ctx context.Context, id uuid.UUID) (int64, error)
	ClaimActiveInvestments(ctx context.Context, limit int32) ([]models.Investment, error)
	AddAccrued(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error)
	CompleteInvestment(ctx context.Context, id uuid.UUID) (int64, error)

	CreatePlan(ctx context.Context, p *models.InvestmentPlan) error
	GetPlan(ctx context.Context, id uuid.UUID) (*models.InvestmentPlan, error)
	ListPlans(ctx context.Context) ([]models.InvestmentPlan, error)
	UpdatePlan(ctx context.Context, p *models.InvestmentPlan) (int64, error)
	DeletePlan(ctx context.Context, id uuid.UUID) (int64, error)

	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotificationsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) (int64, error)
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error)

	CreateSupportTicket(ctx context.Context, t *models.SupportTicket) error
	ListSupportTicketsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.SupportTicket, error)
	ListSupportTickets(ctx context.Context, subjectFilter, statusFilter string, limit, offset int) ([]repository.TicketRow, error)
	UpdateSupportTicketStatus(ctx context.Context, id uuid.UUID, status string) (int64, error)
	DeleteSupportTicket(ctx context.Context, id uuid.UUID) (int64, error)

	PurgeExpiredIdempotencyKeys(ctx context.Context, ttl time.Duration) (int64, error)
}

// Store scopes the query set, optionally inside a transaction.
type Store interface {
	Repo() Querier
	RunInTx(ctx context.Context, fn func(q Querier) error) error
}

type pgStore struct {
	store *repository.Store
}

// NewStore adapts the pgx-backed repository store to the service contract.
func NewStore(store *repository.Store) Store {
	return &pgStore{store: store}
}

func (s *pgStore) Repo() Querier {
	return s.store.Repo()
}

func (s *pgStore) RunInTx(ctx context.Context, fn func(q Querier) error) error {
	return s.store.RunInTx(ctx, func(r *repository.Repository) error {
		return fn(r)
	})
}
