package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
)

func TestSnapshotDerivesFromLedger(t *testing.T) {
	store := newMockStore()
	svc := NewSnapshotService(store)
	userID := uuid.New()

	store.q.On("GetProfile", mock.Anything, userID).Return(&models.Profile{
		ID:               userID,
		FullName:         "Ada Lovelace",
		Balance:          750_000_000,
		TotalDeposits:    1_000_000_000,
		TotalWithdrawals: 250_000_000,
		Earnings:         12_500_000,
	}, nil)
	store.q.On("SumWithdrawalsByStatus", mock.Anything, userID, domain.WithdrawalStatusProcessing).
		Return(int64(250_000_000), nil)
	store.q.On("SumInvestmentsByUser", mock.Anything, userID).Return(int64(100_000_000), nil)

	snap, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(750_000_000), snap.Balance)
	assert.Equal(t, int64(250_000_000), snap.PendingWithdrawals)
	assert.Equal(t, int64(100_000_000), snap.TotalInvestments)
	assert.Equal(t, "Ada Lovelace", snap.FullName)
}

func TestSnapshotIsIdempotent(t *testing.T) {
	store := newMockStore()
	svc := NewSnapshotService(store)
	userID := uuid.New()

	store.q.On("GetProfile", mock.Anything, userID).Return(&models.Profile{
		ID: userID, Balance: 500_000_000,
	}, nil)
	store.q.On("SumWithdrawalsByStatus", mock.Anything, userID, domain.WithdrawalStatusProcessing).
		Return(int64(0), nil)
	store.q.On("SumInvestmentsByUser", mock.Anything, userID).Return(int64(0), nil)

	first, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSnapshotDegradesDerivedSums(t *testing.T) {
	store := newMockStore()
	svc := NewSnapshotService(store)
	userID := uuid.New()

	store.q.On("GetProfile", mock.Anything, userID).Return(&models.Profile{
		ID: userID, Balance: 100_000_000,
	}, nil)
	store.q.On("SumWithdrawalsByStatus", mock.Anything, userID, domain.WithdrawalStatusProcessing).
		Return(int64(0), errors.New("timeout"))
	store.q.On("SumInvestmentsByUser", mock.Anything, userID).
		Return(int64(0), errors.New("timeout"))

	snap, err := svc.Snapshot(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000_000), snap.Balance)
	assert.Zero(t, snap.PendingWithdrawals)
	assert.Zero(t, snap.TotalInvestments)
}

func TestSnapshotRequiresProfile(t *testing.T) {
	store := newMockStore()
	svc := NewSnapshotService(store)
	userID := uuid.New()

	store.q.On("GetProfile", mock.Anything, userID).Return(nil, models.ErrNotFound)

	_, err := svc.Snapshot(context.Background(), userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSnapshotRejectsAnonymous(t *testing.T) {
	svc := NewSnapshotService(newMockStore())
	_, err := svc.Snapshot(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}
