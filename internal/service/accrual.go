package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/observability"
)

// AccrualService credits daily earnings to profiles holding active
// investments and retires investments past their duration. Batches run
// inside a transaction; SKIP LOCKED makes concurrent instances safe.
type AccrualService struct {
	store Store
}

func NewAccrualService(store Store) *AccrualService {
	return &AccrualService{store: store}
}

// RunOnce processes one batch of investments due for accrual and sweeps the
// balance invariant. The claim query's last_accrued_at watermark guarantees
// each investment is credited at most once per day no matter how many passes
// run. Returns the number of investments accrued.
func (s *AccrualService) RunOnce(ctx context.Context, batchSize int32) (int, error) {
	accrued := 0
	err := s.store.RunInTx(ctx, func(q Querier) error {
		investments, err := q.ClaimActiveInvestments(ctx, batchSize)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, inv := range investments {
			if err := ctx.Err(); err != nil {
				return err
			}

			maturity := inv.CreatedAt.Add(time.Duration(inv.DurationDays) * 24 * time.Hour)
			if now.After(maturity) {
				rows, err := q.CompleteInvestment(ctx, inv.ID)
				if err != nil {
					return fmt.Errorf("complete investment %s: %w", inv.ID, err)
				}
				if err := requireExactlyOne(rows, "complete matured investment"); err != nil {
					return err
				}
				continue
			}

			p := domain.ProjectProfit(inv.AmountMicros, inv.DailyRate, inv.DurationDays)
			if p.DailyMicros <= 0 {
				continue
			}
			rows, err := q.AddAccrued(ctx, inv.ID, p.DailyMicros)
			if err != nil {
				return fmt.Errorf("accrue investment %s: %w", inv.ID, err)
			}
			if err := requireExactlyOne(rows, "add accrued amount"); err != nil {
				return err
			}
			rows, err = q.CreditEarnings(ctx, inv.UserID, p.DailyMicros)
			if err != nil {
				return fmt.Errorf("credit earnings for %s: %w", inv.UserID, err)
			}
			if err := requireExactlyOne(rows, "credit earnings"); err != nil {
				return err
			}
			accrued++
		}
		return nil
	})
	if err != nil {
		return accrued, err
	}

	s.sweepInvariants(ctx)
	return accrued, nil
}

// sweepInvariants checks that no client-issued mutation drove a balance
// negative. The CHECK constraint should make violations impossible; a nonzero
// count means the schema and the flows disagree.
func (s *AccrualService) sweepInvariants(ctx context.Context) {
	count, err := s.store.Repo().CountNegativeBalances(ctx)
	if err != nil {
		zap.L().Warn("balance invariant sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		observability.IncrementBalanceImbalance()
		zap.L().Error("negative balances detected", zap.Int64("count", count))
	}
}
