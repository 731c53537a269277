package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
	"github.com/profitbridge/platform-api/internal/observability"
	"github.com/profitbridge/platform-api/internal/repository"
)

// AdminService implements moderation: ledger status transitions, record and
// user management, and plan CRUD.
type AdminService struct {
	store Store

	// CreditOnApproval applies an approved deposit to the profile balance in
	// the same transaction as the status change.
	CreditOnApproval bool
	// RefundOnReject restores the reserved funds when a withdrawal is
	// rejected, reversing the cumulative total as well.
	RefundOnReject bool
}

func NewAdminService(store Store) *AdminService {
	return &AdminService{
		store:            store,
		CreditOnApproval: true,
	}
}

// ListFilter selects and pages the admin ledger views. Page is 1-indexed and
// applies to the filtered collection.
type ListFilter struct {
	EmailContains string
	Status        string
	Page          int
	PageSize      int
}

func (f ListFilter) limitOffset() (int, int) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 {
		size = 10
	}
	return size, (page - 1) * size
}

func (s *AdminService) ListDeposits(ctx context.Context, f ListFilter) ([]repository.DepositRow, error) {
	limit, offset := f.limitOffset()
	return s.store.Repo().ListDeposits(ctx, f.EmailContains, normalizeStatus(f.Status), limit, offset)
}

func (s *AdminService) ListWithdrawals(ctx context.Context, f ListFilter) ([]repository.WithdrawalRow, error) {
	limit, offset := f.limitOffset()
	return s.store.Repo().ListWithdrawals(ctx, f.EmailContains, normalizeStatus(f.Status), limit, offset)
}

func (s *AdminService) ListInvestments(ctx context.Context, f ListFilter) ([]repository.InvestmentRow, error) {
	limit, offset := f.limitOffset()
	return s.store.Repo().ListInvestments(ctx, f.EmailContains, normalizeStatus(f.Status), limit, offset)
}

func (s *AdminService) ListUsers(ctx context.Context, f ListFilter) ([]models.Profile, error) {
	limit, offset := f.limitOffset()
	return s.store.Repo().ListProfiles(ctx, f.EmailContains, limit, offset)
}

// SetDepositStatus transitions a deposit. Approval credits the profile
// balance and total atomically with the status write when CreditOnApproval
// is set.
func (s *AdminService) SetDepositStatus(ctx context.Context, depositID uuid.UUID, newStatus string) (*models.Deposit, error) {
	newStatus = normalizeStatus(newStatus)
	var out *models.Deposit
	err := s.store.RunInTx(ctx, func(q Querier) error {
		deposit, err := q.GetDepositForUpdate(ctx, depositID)
		if err != nil {
			return err
		}
		if deposit.Status == newStatus {
			out = deposit
			return nil
		}
		if !canTransition(depositTransitions, deposit.Status, newStatus) {
			return fmt.Errorf("%w: deposit %s -> %s", models.ErrInvalidTransition, deposit.Status, newStatus)
		}

		rows, err := q.UpdateDepositStatus(ctx, depositID, newStatus)
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "update deposit status"); err != nil {
			return err
		}

		if newStatus == domain.DepositStatusApproved && s.CreditOnApproval {
			rows, err := q.CreditDeposit(ctx, deposit.UserID, deposit.AmountMicros)
			if err != nil {
				return err
			}
			if err := requireExactlyOne(rows, "credit approved deposit"); err != nil {
				return err
			}
		}

		if err := notifyStatusChange(ctx, q, deposit.UserID, "Deposit", deposit.AmountMicros, deposit.Currency, newStatus); err != nil {
			return err
		}

		deposit.Status = newStatus
		out = deposit
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.IncrementModeration("deposit", newStatus)
	return out, nil
}

// SetWithdrawalStatus transitions a withdrawal. Rejection refunds the
// reserved funds only when RefundOnReject is set; the observed platform
// counts withdrawals at creation time regardless of outcome.
func (s *AdminService) SetWithdrawalStatus(ctx context.Context, withdrawalID uuid.UUID, newStatus string) (*models.Withdrawal, error) {
	newStatus = normalizeStatus(newStatus)
	var out *models.Withdrawal
	err := s.store.RunInTx(ctx, func(q Querier) error {
		withdrawal, err := q.GetWithdrawalForUpdate(ctx, withdrawalID)
		if err != nil {
			return err
		}
		if withdrawal.Status == newStatus {
			out = withdrawal
			return nil
		}
		if !canTransition(withdrawalTransitions, withdrawal.Status, newStatus) {
			return fmt.Errorf("%w: withdrawal %s -> %s", models.ErrInvalidTransition, withdrawal.Status, newStatus)
		}

		rows, err := q.UpdateWithdrawalStatus(ctx, withdrawalID, newStatus)
		if err != nil {
			return err
		}
		if err := requireExactlyOne(rows, "update withdrawal status"); err != nil {
			return err
		}

		if newStatus == domain.WithdrawalStatusRejected && s.RefundOnReject {
			rows, err := q.CreditBalance(ctx, withdrawal.UserID, withdrawal.AmountMicros)
			if err != nil {
				return err
			}
			if err := requireExactlyOne(rows, "refund rejected withdrawal"); err != nil {
				return err
			}
			rows, err = q.AddTotalWithdrawals(ctx, withdrawal.UserID, -withdrawal.AmountMicros)
			if err != nil {
				return err
			}
			if err := requireExactlyOne(rows, "reverse total withdrawals"); err != nil {
				return err
			}
		}

		if err := notifyStatusChange(ctx, q, withdrawal.UserID, "Withdrawal", withdrawal.AmountMicros, withdrawal.Currency, newStatus); err != nil {
			return err
		}

		withdrawal.Status = newStatus
		out = withdrawal
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.IncrementModeration("withdrawal", newStatus)
	return out, nil
}

// notifyStatusChange records a dashboard notification inside the moderation
// transaction, so the notification and the decision land together.
func notifyStatusChange(ctx context.Context, q Querier, userID uuid.UUID, kind string, amountMicros int64, currency, newStatus string) error {
	return q.CreateNotification(ctx, &models.Notification{
		ID:     uuid.New(),
		UserID: userID,
		Title:  fmt.Sprintf("%s %s", kind, newStatus),
		Body: fmt.Sprintf("Your %s of %s %s was %s.",
			strings.ToLower(kind), domain.MicrosToString(amountMicros), currency, newStatus),
	})
}

func (s *AdminService) DeleteDeposit(ctx context.Context, id uuid.UUID) error {
	return deleteRecord(s.store.Repo().DeleteDeposit, ctx, id)
}

func (s *AdminService) DeleteWithdrawal(ctx context.Context, id uuid.UUID) error {
	return deleteRecord(s.store.Repo().DeleteWithdrawal, ctx, id)
}

func (s *AdminService) DeleteInvestment(ctx context.Context, id uuid.UUID) error {
	return deleteRecord(s.store.Repo().DeleteInvestment, ctx, id)
}

func deleteRecord(del func(context.Context, uuid.UUID) (int64, error), ctx context.Context, id uuid.UUID) error {
	rows, err := del(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetUserSuspended toggles the suspended flag; suspended users keep their
// data but every flow entry point rejects them.
func (s *AdminService) SetUserSuspended(ctx context.Context, userID uuid.UUID, suspended bool) error {
	rows, err := s.store.Repo().SetProfileSuspended(ctx, userID, suspended)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	zap.L().Info("user suspension changed",
		zap.String("user_id", userID.String()), zap.Bool("suspended", suspended))
	return nil
}

// DeleteUser removes a profile; ledger rows cascade with it.
func (s *AdminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	rows, err := s.store.Repo().DeleteProfile(ctx, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// PlanInput carries plan fields for create/update.
type PlanInput struct {
	Name            string
	DailyRate       decimal.Decimal
	DurationDays    int
	MinAmountMicros int64
}

func (in PlanInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.New("name is required")
	}
	if !in.DailyRate.IsPositive() {
		return errors.New("daily_rate must be positive")
	}
	if in.DurationDays <= 0 {
		return errors.New("duration_days must be positive")
	}
	if in.MinAmountMicros <= 0 {
		return errors.New("min_amount must be positive")
	}
	return nil
}

func (s *AdminService) CreatePlan(ctx context.Context, in PlanInput) (*models.InvestmentPlan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	plan := &models.InvestmentPlan{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(in.Name),
		DailyRate:       in.DailyRate,
		DurationDays:    in.DurationDays,
		MinAmountMicros: in.MinAmountMicros,
	}
	if err := s.store.Repo().CreatePlan(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// UpdatePlan edits plan terms. Existing investments are unaffected: they
// carry the rate and duration copied at creation time.
func (s *AdminService) UpdatePlan(ctx context.Context, planID uuid.UUID, in PlanInput) (*models.InvestmentPlan, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	plan := &models.InvestmentPlan{
		ID:              planID,
		Name:            strings.TrimSpace(in.Name),
		DailyRate:       in.DailyRate,
		DurationDays:    in.DurationDays,
		MinAmountMicros: in.MinAmountMicros,
	}
	rows, err := s.store.Repo().UpdatePlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, models.ErrNotFound
	}
	return plan, nil
}

func (s *AdminService) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	rows, err := s.store.Repo().DeletePlan(ctx, planID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}
