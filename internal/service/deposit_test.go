package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
)

func TestDepositSubmitIsPendingAndDoesNotCredit(t *testing.T) {
	store := newMockStore()
	svc := NewDepositService(store)
	userID := uuid.New()

	store.q.On("GetProfile", mock.Anything, userID).Return(&models.Profile{
		ID: userID, Balance: 0,
	}, nil)
	store.q.On("CreateDeposit", mock.Anything, mock.MatchedBy(func(d *models.Deposit) bool {
		return d.Status == domain.DepositStatusPending && d.AmountMicros == 500_000_000
	})).Return(nil)

	deposit, err := svc.Submit(context.Background(), userID, SubmitDepositRequest{
		AmountMicros: 500_000_000,
		Currency:     "USD",
		TxRef:        "0xdeadbeef",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusPending, deposit.Status)
	// Submission never touches the balance; only moderation does.
	store.q.AssertNotCalled(t, "CreditBalance", mock.Anything, mock.Anything, mock.Anything)
	store.q.AssertNotCalled(t, "CreditDeposit", mock.Anything, mock.Anything, mock.Anything)
}

func TestDepositRejectsSuspendedUser(t *testing.T) {
	store := newMockStore()
	svc := NewDepositService(store)
	userID := uuid.New()

	store.q.On("GetProfile", mock.Anything, userID).Return(&models.Profile{
		ID: userID, Suspended: true,
	}, nil)

	_, err := svc.Submit(context.Background(), userID, SubmitDepositRequest{
		AmountMicros: 100_000_000,
		TxRef:        "0xdeadbeef",
	})
	assert.ErrorIs(t, err, models.ErrAccountSuspended)
}

func TestDepositValidation(t *testing.T) {
	svc := NewDepositService(newMockStore())

	_, err := svc.Submit(context.Background(), uuid.New(), SubmitDepositRequest{
		AmountMicros: 0, TxRef: "ref",
	})
	require.Error(t, err)

	_, err = svc.Submit(context.Background(), uuid.New(), SubmitDepositRequest{
		AmountMicros: 100, TxRef: " ",
	})
	require.Error(t, err)
}

func TestDepositHistoryPaginates(t *testing.T) {
	store := newMockStore()
	svc := NewDepositService(store)
	userID := uuid.New()

	store.q.On("ListDepositsByUser", mock.Anything, userID, 10, 10).
		Return([]models.Deposit{{ID: uuid.New()}}, nil)

	deposits, err := svc.History(context.Background(), userID, 2, 10)
	require.NoError(t, err)
	assert.Len(t, deposits, 1)
	store.q.AssertExpectations(t)
}
