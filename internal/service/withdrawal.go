package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
	"github.com/profitbridge/platform-api/internal/observability"
)

// WithdrawalService reserves funds at submission: the ledger insert and the
// balance debit commit or roll back together.
type WithdrawalService struct {
	store Store
}

func NewWithdrawalService(store Store) *WithdrawalService {
	return &WithdrawalService{store: store}
}

// SubmitWithdrawalRequest holds the parameters for a withdrawal submission.
type SubmitWithdrawalRequest struct {
	AmountMicros  int64
	Currency      string
	WalletAddress string
}

// WithdrawalReceipt carries the optimistic projection alongside the record.
// The change-feed-triggered snapshot recomputation remains authoritative and
// overwrites these values on the next render.
type WithdrawalReceipt struct {
	Withdrawal              *models.Withdrawal `json:"withdrawal"`
	BalanceMicros           int64              `json:"balance_micros"`
	PendingWithdrawalMicros int64              `json:"pending_withdrawals_micros"`
}

func (req SubmitWithdrawalRequest) validate() error {
	if req.AmountMicros <= 0 {
		return fmt.Errorf("invalid amount: %d", req.AmountMicros)
	}
	if strings.TrimSpace(req.WalletAddress) == "" {
		return errors.New("wallet_address is required")
	}
	return nil
}

// Submit inserts a processing withdrawal and debits the balance in one
// transaction. The debit's balance predicate reads fresh state, so a
// concurrent submission from the same user cannot double-spend.
func (s *WithdrawalService) Submit(ctx context.Context, userID uuid.UUID, req SubmitWithdrawalRequest) (*WithdrawalReceipt, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	q := s.store.Repo()
	profile, err := q.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("withdrawal profile read: %w", err)
	}
	if profile.Suspended {
		return nil, models.ErrAccountSuspended
	}
	if req.AmountMicros > profile.Balance {
		return nil, models.ErrInsufficientFunds
	}

	pendingBefore, err := q.SumWithdrawalsByStatus(ctx, userID, domain.WithdrawalStatusProcessing)
	if err != nil {
		zap.L().Warn("pending withdrawal sum failed before submit", zap.Error(err))
		pendingBefore = 0
	}

	withdrawal := &models.Withdrawal{
		ID:            uuid.New(),
		UserID:        userID,
		AmountMicros:  req.AmountMicros,
		Currency:      req.Currency,
		WalletAddress: strings.TrimSpace(req.WalletAddress),
		Status:        domain.WithdrawalStatusProcessing,
	}

	err = s.store.RunInTx(ctx, func(qtx Querier) error {
		if err := qtx.CreateWithdrawal(ctx, withdrawal); err != nil {
			return err
		}
		rows, err := qtx.DebitBalance(ctx, userID, req.AmountMicros)
		if err != nil {
			return err
		}
		if rows == 0 {
			return models.ErrInsufficientFunds
		}
		// Withdrawals count toward the cumulative total at creation time,
		// regardless of later moderation outcome.
		rows, err = qtx.AddTotalWithdrawals(ctx, userID, req.AmountMicros)
		if err != nil {
			return err
		}
		return requireExactlyOne(rows, "add total withdrawals")
	})
	if err != nil {
		observability.IncrementFlow("withdrawal", "error")
		return nil, err
	}

	observability.IncrementFlow("withdrawal", "submitted")
	return &WithdrawalReceipt{
		Withdrawal:              withdrawal,
		BalanceMicros:           profile.Balance - req.AmountMicros,
		PendingWithdrawalMicros: pendingBefore + req.AmountMicros,
	}, nil
}

// History lists the user's withdrawals, newest first, 1-indexed pages.
func (s *WithdrawalService) History(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.Withdrawal, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.store.Repo().ListWithdrawalsByUser(ctx, userID, pageSize, (page-1)*pageSize)
}
