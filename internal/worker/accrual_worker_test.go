package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
	"github.com/profitbridge/platform-api/internal/service"
)

// watermarkStore mirrors the claim query's semantics: an investment is due
// only when its last accrual is at least a day old, and accruing advances
// the watermark.
type watermarkStore struct {
	service.Querier

	mu         sync.Mutex
	investment models.Investment
	credits    int
}

func (s *watermarkStore) Repo() service.Querier { return s }

func (s *watermarkStore) RunInTx(ctx context.Context, fn func(q service.Querier) error) error {
	return fn(s)
}

func (s *watermarkStore) ClaimActiveInvestments(ctx context.Context, limit int32) ([]models.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if time.Since(s.investment.LastAccruedAt) < 24*time.Hour {
		return nil, nil
	}
	return []models.Investment{s.investment}, nil
}

func (s *watermarkStore) AddAccrued(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.investment.AccruedMicros += amountMicros
	s.investment.LastAccruedAt = time.Now()
	return 1, nil
}

func (s *watermarkStore) CreditEarnings(ctx context.Context, id uuid.UUID, amountMicros int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credits++
	return 1, nil
}

func (s *watermarkStore) CountNegativeBalances(ctx context.Context) (int64, error) {
	return 0, nil
}

// A tight interval with a full first batch must still credit the daily
// profit exactly once: the watermark, not the tick rate, gates accrual.
func TestAccrualWorkerCreditsOncePerDay(t *testing.T) {
	store := &watermarkStore{
		investment: models.Investment{
			ID:            uuid.New(),
			UserID:        uuid.New(),
			AmountMicros:  200_000_000,
			Status:        domain.InvestmentStatusActive,
			DailyRate:     decimal.RequireFromString("2.5"),
			DurationDays:  30,
			LastAccruedAt: time.Now().Add(-25 * time.Hour),
			CreatedAt:     time.Now().Add(-48 * time.Hour),
		},
	}

	w := NewAccrualWorker(service.NewAccrualService(store)).
		WithInterval(5 * time.Millisecond).
		WithBatchSize(1)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	stop := w.Run(ctx)
	<-ctx.Done()
	stop()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.credits, "daily profit must be credited exactly once per day")
	assert.Equal(t, int64(5_000_000), store.investment.AccruedMicros)
}
