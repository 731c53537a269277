package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
	"github.com/profitbridge/platform-api/internal/observability"
)

// compensationTimeout bounds the compensating credit after the caller's own
// deadline is gone.
const compensationTimeout = 5 * time.Second

// InvestmentService debits the balance, then inserts the investment record.
// The two writes are deliberately separate statements with an explicit
// compensating credit: if the insert fails after the debit succeeded, the
// debit is undone before the error is surfaced.
type InvestmentService struct {
	store Store
}

func NewInvestmentService(store Store) *InvestmentService {
	return &InvestmentService{store: store}
}

// SubmitInvestmentRequest holds the parameters for an investment submission.
type SubmitInvestmentRequest struct {
	PlanID       uuid.UUID
	AmountMicros int64
}

// InvestmentResult pairs the created record with its profit projection.
type InvestmentResult struct {
	Investment *models.Investment `json:"investment"`
	Projection domain.Projection  `json:"projection"`
}

// Submit validates against a freshly-read balance, debits, then inserts the
// investment carrying the plan's rate and duration as of now. A failed insert
// triggers the compensating credit; a failed compensation is retried once and
// logged with the stranded amount if it still fails.
func (s *InvestmentService) Submit(ctx context.Context, userID uuid.UUID, req SubmitInvestmentRequest) (*InvestmentResult, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	if req.AmountMicros <= 0 {
		return nil, fmt.Errorf("invalid amount: %d", req.AmountMicros)
	}

	q := s.store.Repo()
	profile, err := q.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("investment profile read: %w", err)
	}
	if profile.Suspended {
		return nil, models.ErrAccountSuspended
	}

	plan, err := q.GetPlan(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("investment plan read: %w", err)
	}
	if req.AmountMicros < plan.MinAmountMicros {
		return nil, models.ErrAmountBelowMinimum
	}
	if req.AmountMicros > profile.Balance {
		return nil, models.ErrInsufficientFunds
	}

	rows, err := q.DebitBalance(ctx, userID, req.AmountMicros)
	if err != nil {
		observability.IncrementFlow("investment", "error")
		return nil, fmt.Errorf("investment debit: %w", err)
	}
	if rows == 0 {
		// Balance moved between the read above and the debit.
		return nil, models.ErrInsufficientFunds
	}

	investment := &models.Investment{
		ID:           uuid.New(),
		UserID:       userID,
		PlanID:       plan.ID,
		AmountMicros: req.AmountMicros,
		Status:       domain.InvestmentStatusActive,
		DailyRate:    plan.DailyRate,
		DurationDays: plan.DurationDays,
	}
	if err := q.CreateInvestment(ctx, investment); err != nil {
		s.compensateDebit(ctx, userID, investment.ID, req.AmountMicros)
		observability.IncrementFlow("investment", "error")
		return nil, fmt.Errorf("investment insert: %w", err)
	}

	observability.IncrementFlow("investment", "submitted")
	return &InvestmentResult{
		Investment: investment,
		Projection: domain.ProjectProfit(req.AmountMicros, plan.DailyRate, plan.DurationDays),
	}, nil
}

// compensateDebit restores the balance after a failed insert. Best-effort,
// not a transactional guarantee: one retry, then an error log carrying the
// stranded amount for operator follow-up. The credit runs detached from the
// caller's context: a request deadline expiring is the usual reason the
// insert failed in the first place, and the compensation must outlive it.
func (s *InvestmentService) compensateDebit(ctx context.Context, userID, investmentID uuid.UUID, amountMicros int64) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	q := s.store.Repo()
	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		rows, err := q.CreditBalance(ctx, userID, amountMicros)
		if err == nil && rows == 1 {
			observability.IncrementFlow("investment", "compensated")
			return
		}
		if err == nil {
			err = fmt.Errorf("compensating credit affected %d rows", rows)
		}
		lastErr = err
	}
	observability.IncrementFlow("investment", "compensation_failed")
	zap.L().Error("investment compensation failed; balance debit is stranded",
		zap.Error(lastErr),
		zap.String("user_id", userID.String()),
		zap.String("investment_id", investmentID.String()),
		zap.Int64("amount_micros", amountMicros),
	)
}

// Project is the pure profit projection for a plan and amount; callers clamp
// the amount into [plan minimum, balance] before invoking it.
func (s *InvestmentService) Project(plan *models.InvestmentPlan, amountMicros, balanceMicros int64) (int64, domain.Projection) {
	clamped := domain.ClampAmount(amountMicros, plan.MinAmountMicros, balanceMicros)
	return clamped, domain.ProjectProfit(clamped, plan.DailyRate, plan.DurationDays)
}

// Quote reads the plan and the caller's balance, clamps the requested amount
// into [plan minimum, balance], and projects the profit. Read-only.
func (s *InvestmentService) Quote(ctx context.Context, userID, planID uuid.UUID, amountMicros int64) (*Quote, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	q := s.store.Repo()
	profile, err := q.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("quote profile read: %w", err)
	}
	plan, err := q.GetPlan(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("quote plan read: %w", err)
	}
	clamped, projection := s.Project(plan, amountMicros, profile.Balance)
	return &Quote{
		PlanID:       plan.ID,
		AmountMicros: clamped,
		Projection:   projection,
	}, nil
}

// Quote is a clamped amount and its projected profit for a plan.
type Quote struct {
	PlanID       uuid.UUID         `json:"plan_id"`
	AmountMicros int64             `json:"amount_micros"`
	Projection   domain.Projection `json:"projection"`
}

// Plans lists the investment plans available to invest in.
func (s *InvestmentService) Plans(ctx context.Context) ([]models.InvestmentPlan, error) {
	return s.store.Repo().ListPlans(ctx)
}

// History lists the user's investments, newest first, 1-indexed pages.
func (s *InvestmentService) History(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.Investment, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.store.Repo().ListInvestmentsByUser(ctx, userID, pageSize, (page-1)*pageSize)
}
