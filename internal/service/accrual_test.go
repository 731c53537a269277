package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/profitbridge/platform-api/internal/models"
)

func TestAccrualCreditsDailyEarnings(t *testing.T) {
	store := newMockStore()
	svc := NewAccrualService(store)
	userID := uuid.New()
	invID := uuid.New()

	store.q.On("ClaimActiveInvestments", mock.Anything, int32(100)).Return([]models.Investment{
		{
			ID: invID, UserID: userID, AmountMicros: 200_000_000,
			DailyRate: decimal.RequireFromString("2.5"), DurationDays: 30,
			CreatedAt: time.Now().Add(-48 * time.Hour),
		},
	}, nil)
	store.q.On("AddAccrued", mock.Anything, invID, int64(5_000_000)).Return(int64(1), nil)
	store.q.On("CreditEarnings", mock.Anything, userID, int64(5_000_000)).Return(int64(1), nil)
	store.q.On("CountNegativeBalances", mock.Anything).Return(int64(0), nil)

	accrued, err := svc.RunOnce(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, accrued)
	store.q.AssertExpectations(t)
}

func TestAccrualCompletesMaturedInvestments(t *testing.T) {
	store := newMockStore()
	svc := NewAccrualService(store)
	invID := uuid.New()

	store.q.On("ClaimActiveInvestments", mock.Anything, int32(100)).Return([]models.Investment{
		{
			ID: invID, UserID: uuid.New(), AmountMicros: 200_000_000,
			DailyRate: decimal.RequireFromString("2.5"), DurationDays: 30,
			CreatedAt: time.Now().Add(-31 * 24 * time.Hour),
		},
	}, nil)
	store.q.On("CompleteInvestment", mock.Anything, invID).Return(int64(1), nil)
	store.q.On("CountNegativeBalances", mock.Anything).Return(int64(0), nil)

	accrued, err := svc.RunOnce(context.Background(), 100)
	require.NoError(t, err)
	assert.Zero(t, accrued)
	store.q.AssertNotCalled(t, "AddAccrued", mock.Anything, mock.Anything, mock.Anything)
	store.q.AssertNotCalled(t, "CreditEarnings", mock.Anything, mock.Anything, mock.Anything)
}

func TestAccrualEmptyBatch(t *testing.T) {
	store := newMockStore()
	svc := NewAccrualService(store)

	store.q.On("ClaimActiveInvestments", mock.Anything, int32(50)).Return([]models.Investment{}, nil)
	store.q.On("CountNegativeBalances", mock.Anything).Return(int64(0), nil)

	accrued, err := svc.RunOnce(context.Background(), 50)
	require.NoError(t, err)
	assert.Zero(t, accrued)
}
