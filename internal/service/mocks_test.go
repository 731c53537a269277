package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/profitbridge/platform-api/internal/models"
	"github.com/profitbridge/platform-api/internal/repository"
)

// mockQuerier is a testify mock over the full data-access contract.
type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) CreateProfile(ctx context.Context, p *models.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockQuerier) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockQuerier) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockQuerier) ListProfiles(ctx context.Context, emailFilter string, limit, offset int) ([]models.Profile, error) {
	args := m.Called(ctx, emailFilter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *mockQuerier) SetProfileSuspended(ctx context.Context, id uuid.UUID, suspended bool) (int64, error) {
	args := m.Called(ctx, id, suspended)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) UpdateProfileWallet(ctx context.Context, id uuid.UUID, walletAddress string) (int64, error) {
	args := m.Called(ctx, id, walletAddress)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) UpdateProfilePassword(ctx context.Context, id uuid.UUID, passwordHash string) (int64, error) {
	args := m.Called(ctx, id, passwordHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) DeleteProfile(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CreateNotification(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockQuerier) ListNotificationsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockQuerier) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) MarkNotificationRead(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CreateSupportTicket(ctx context.Context, t *models.SupportTicket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockQuerier) ListSupportTicketsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.SupportTicket, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SupportTicket), args.Error(1)
}

func (m *mockQuerier) ListSupportTickets(ctx context.Context, subjectFilter, statusFilter string, limit, offset int) ([]repository.TicketRow, error) {
	args := m.Called(ctx, subjectFilter, statusFilter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TicketRow), args.Error(1)
}

func (m *mockQuerier) UpdateSupportTicketStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) DeleteSupportTicket(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) DebitBalance(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	args := m.Called(ctx, id, amountMicros)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CreditBalance(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	args := m.Called(ctx, id, amountMicros)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CreditDeposit(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	args := m.Called(ctx, id, amountMicros)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) AddTotalWithdrawals(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	args := m.Called(ctx, id, amountMicros)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CreditEarnings(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	args := m.Called(ctx, id, amountMicros)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CountNegativeBalances(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CreateDeposit(ctx context.Context, d *models.Deposit) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockQuerier) GetDepositForUpdate(ctx context.Context, id uuid.UUID) (*models.Deposit, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Deposit), args.Error(1)
}

func (m *mockQuerier) ListDepositsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Deposit, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Deposit), args.Error(1)
}

func (m *mockQuerier) ListDeposits(ctx context.Context, emailFilter, statusFilter string, limit, offset int) ([]repository.DepositRow, error) {
	args := m.Called(ctx, emailFilter, statusFilter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DepositRow), args.Error(1)
}

func (m *mockQuerier) UpdateDepositStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) DeleteDeposit(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CreateWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	return m.Called(ctx, w).Error(0)
}

func (m *mockQuerier) GetWithdrawalForUpdate(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Withdrawal), args.Error(1)
}

func (m *mockQuerier) SumWithdrawalsByStatus(ctx context.Context, userID uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) ListWithdrawalsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Withdrawal), args.Error(1)
}

func (m *mockQuerier) ListWithdrawals(ctx context.Context, emailFilter, statusFilter string, limit, offset int) ([]repository.WithdrawalRow, error) {
	args := m.Called(ctx, emailFilter, statusFilter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.WithdrawalRow), args.Error(1)
}

func (m *mockQuerier) UpdateWithdrawalStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) DeleteWithdrawal(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CreateInvestment(ctx context.Context, inv *models.Investment) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *mockQuerier) GetInvestment(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Investment), args.Error(1)
}

func (m *mockQuerier) SumInvestmentsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) ListInvestmentsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Investment, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Investment), args.Error(1)
}

func (m *mockQuerier) ListInvestments(ctx context.Context, emailFilter, statusFilter string, limit, offset int) ([]repository.InvestmentRow, error) {
	args := m.Called(ctx, emailFilter, statusFilter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.InvestmentRow), args.Error(1)
}

func (m *mockQuerier) DeleteInvestment(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) ClaimActiveInvestments(ctx context.Context, limit int32) ([]models.Investment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Investment), args.Error(1)
}

func (m *mockQuerier) AddAccrued(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	args := m.Called(ctx, id, amountMicros)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CompleteInvestment(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) CreatePlan(ctx context.Context, p *models.InvestmentPlan) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockQuerier) GetPlan(ctx context.Context, id uuid.UUID) (*models.InvestmentPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvestmentPlan), args.Error(1)
}

func (m *mockQuerier) ListPlans(ctx context.Context) ([]models.InvestmentPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.InvestmentPlan), args.Error(1)
}

func (m *mockQuerier) UpdatePlan(ctx context.Context, p *models.InvestmentPlan) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) DeletePlan(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuerier) PurgeExpiredIdempotencyKeys(ctx context.Context, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, ttl)
	return args.Get(0).(int64), args.Error(1)
}

// mockStore hands the same mock querier to direct reads and transactions, so
// a test asserts one call sequence regardless of transactional scope.
type mockStore struct {
	q *mockQuerier
}

func newMockStore() *mockStore {
	return &mockStore{q: &mockQuerier{}}
}

func (s *mockStore) Repo() Querier {
	return s.q
}

func (s *mockStore) RunInTx(ctx context.Context, fn func(q Querier) error) error {
	return fn(s.q)
}
