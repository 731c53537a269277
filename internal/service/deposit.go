package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
	"github.com/profitbridge/platform-api/internal/observability"
)

// DepositService creates pending deposit records. Submission never touches
// the profile balance; crediting happens at admin approval.
type DepositService struct {
	store Store
}

func NewDepositService(store Store) *DepositService {
	return &DepositService{store: store}
}

// SubmitDepositRequest holds the parameters for a deposit submission.
type SubmitDepositRequest struct {
	AmountMicros int64
	Currency     string
	TxRef        string
}

func (req SubmitDepositRequest) validate() error {
	if req.AmountMicros <= 0 {
		return fmt.Errorf("invalid amount: %d", req.AmountMicros)
	}
	if strings.TrimSpace(req.TxRef) == "" {
		return errors.New("tx_ref is required")
	}
	return nil
}

// Submit validates and inserts a pending deposit. Single-statement write:
// an insert failure leaves no partial state.
func (s *DepositService) Submit(ctx context.Context, userID uuid.UUID, req SubmitDepositRequest) (*models.Deposit, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	q := s.store.Repo()
	profile, err := q.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("deposit profile read: %w", err)
	}
	if profile.Suspended {
		return nil, models.ErrAccountSuspended
	}

	deposit := &models.Deposit{
		ID:           uuid.New(),
		UserID:       userID,
		AmountMicros: req.AmountMicros,
		Currency:     req.Currency,
		TxRef:        strings.TrimSpace(req.TxRef),
		Status:       domain.DepositStatusPending,
	}
	if err := q.CreateDeposit(ctx, deposit); err != nil {
		observability.IncrementFlow("deposit", "error")
		return nil, err
	}

	observability.IncrementFlow("deposit", "submitted")
	return deposit, nil
}

// History lists the user's deposits, newest first, 1-indexed pages.
func (s *DepositService) History(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.Deposit, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.store.Repo().ListDepositsByUser(ctx, userID, pageSize, (page-1)*pageSize)
}
