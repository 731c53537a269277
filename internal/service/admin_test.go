package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
)

func TestApproveDepositCreditsBalance(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	depositID := uuid.New()
	userID := uuid.New()

	store.q.On("GetDepositForUpdate", mock.Anything, depositID).Return(&models.Deposit{
		ID: depositID, UserID: userID, AmountMicros: 500_000_000,
		Status: domain.DepositStatusPending,
	}, nil)
	store.q.On("UpdateDepositStatus", mock.Anything, depositID, domain.DepositStatusApproved).
		Return(int64(1), nil)
	store.q.On("CreditDeposit", mock.Anything, userID, int64(500_000_000)).Return(int64(1), nil)
	store.q.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)

	deposit, err := svc.SetDepositStatus(context.Background(), depositID, "approved")
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusApproved, deposit.Status)
	store.q.AssertExpectations(t)
}

func TestApproveDepositWithoutCreditFlag(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	svc.CreditOnApproval = false
	depositID := uuid.New()

	store.q.On("GetDepositForUpdate", mock.Anything, depositID).Return(&models.Deposit{
		ID: depositID, UserID: uuid.New(), AmountMicros: 500_000_000,
		Status: domain.DepositStatusPending,
	}, nil)
	store.q.On("UpdateDepositStatus", mock.Anything, depositID, domain.DepositStatusApproved).
		Return(int64(1), nil)
	store.q.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.SetDepositStatus(context.Background(), depositID, "approved")
	require.NoError(t, err)
	store.q.AssertNotCalled(t, "CreditDeposit", mock.Anything, mock.Anything, mock.Anything)
}

func TestDepositTerminalStatusesAreImmutable(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	depositID := uuid.New()

	store.q.On("GetDepositForUpdate", mock.Anything, depositID).Return(&models.Deposit{
		ID: depositID, Status: domain.DepositStatusRejected,
	}, nil)

	_, err := svc.SetDepositStatus(context.Background(), depositID, "approved")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	store.q.AssertNotCalled(t, "UpdateDepositStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSameStatusTransitionIsNoOp(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	depositID := uuid.New()

	store.q.On("GetDepositForUpdate", mock.Anything, depositID).Return(&models.Deposit{
		ID: depositID, Status: domain.DepositStatusApproved,
	}, nil)

	deposit, err := svc.SetDepositStatus(context.Background(), depositID, "Approved")
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusApproved, deposit.Status)
	store.q.AssertNotCalled(t, "UpdateDepositStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectWithdrawalKeepsDebitByDefault(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	withdrawalID := uuid.New()

	store.q.On("GetWithdrawalForUpdate", mock.Anything, withdrawalID).Return(&models.Withdrawal{
		ID: withdrawalID, UserID: uuid.New(), AmountMicros: 250_000_000,
		Status: domain.WithdrawalStatusProcessing,
	}, nil)
	store.q.On("UpdateWithdrawalStatus", mock.Anything, withdrawalID, domain.WithdrawalStatusRejected).
		Return(int64(1), nil)
	store.q.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)

	withdrawal, err := svc.SetWithdrawalStatus(context.Background(), withdrawalID, "rejected")
	require.NoError(t, err)
	assert.Equal(t, domain.WithdrawalStatusRejected, withdrawal.Status)
	// Withdrawals are counted at creation time; rejection does not refund
	// unless the operator opts in.
	store.q.AssertNotCalled(t, "CreditBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectWithdrawalRefundsWhenConfigured(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	svc.RefundOnReject = true
	withdrawalID := uuid.New()
	userID := uuid.New()

	store.q.On("GetWithdrawalForUpdate", mock.Anything, withdrawalID).Return(&models.Withdrawal{
		ID: withdrawalID, UserID: userID, AmountMicros: 250_000_000,
		Status: domain.WithdrawalStatusProcessing,
	}, nil)
	store.q.On("UpdateWithdrawalStatus", mock.Anything, withdrawalID, domain.WithdrawalStatusRejected).
		Return(int64(1), nil)
	store.q.On("CreditBalance", mock.Anything, userID, int64(250_000_000)).Return(int64(1), nil)
	store.q.On("AddTotalWithdrawals", mock.Anything, userID, int64(-250_000_000)).Return(int64(1), nil)
	store.q.On("CreateNotification", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.SetWithdrawalStatus(context.Background(), withdrawalID, "rejected")
	require.NoError(t, err)
	store.q.AssertExpectations(t)
}

func TestModerationWritesNotification(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	depositID := uuid.New()
	userID := uuid.New()

	store.q.On("GetDepositForUpdate", mock.Anything, depositID).Return(&models.Deposit{
		ID: depositID, UserID: userID, AmountMicros: 500_000_000, Currency: "USD",
		Status: domain.DepositStatusPending,
	}, nil)
	store.q.On("UpdateDepositStatus", mock.Anything, depositID, domain.DepositStatusRejected).
		Return(int64(1), nil)
	store.q.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n *models.Notification) bool {
		return n.UserID == userID &&
			n.Title == "Deposit rejected" &&
			n.Body == "Your deposit of 500.00 USD was rejected."
	})).Return(nil)

	_, err := svc.SetDepositStatus(context.Background(), depositID, "rejected")
	require.NoError(t, err)
	store.q.AssertExpectations(t)
}

func TestWithdrawalTerminalStatusesAreImmutable(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	withdrawalID := uuid.New()

	store.q.On("GetWithdrawalForUpdate", mock.Anything, withdrawalID).Return(&models.Withdrawal{
		ID: withdrawalID, Status: domain.WithdrawalStatusApproved,
	}, nil)

	_, err := svc.SetWithdrawalStatus(context.Background(), withdrawalID, "rejected")
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestDeleteRecordNotFound(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	id := uuid.New()

	store.q.On("DeleteDeposit", mock.Anything, id).Return(int64(0), nil)

	err := svc.DeleteDeposit(context.Background(), id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSetUserSuspended(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	userID := uuid.New()

	store.q.On("SetProfileSuspended", mock.Anything, userID, true).Return(int64(1), nil)

	require.NoError(t, svc.SetUserSuspended(context.Background(), userID, true))
	store.q.AssertExpectations(t)
}

func TestPlanValidation(t *testing.T) {
	svc := NewAdminService(newMockStore())

	_, err := svc.CreatePlan(context.Background(), PlanInput{
		Name: "", DailyRate: decimal.RequireFromString("2.5"),
		DurationDays: 30, MinAmountMicros: 50_000_000,
	})
	require.Error(t, err)

	_, err = svc.CreatePlan(context.Background(), PlanInput{
		Name: "Growth", DailyRate: decimal.Zero,
		DurationDays: 30, MinAmountMicros: 50_000_000,
	})
	require.Error(t, err)
}

func TestUpdatePlanNotFound(t *testing.T) {
	store := newMockStore()
	svc := NewAdminService(store)
	planID := uuid.New()

	store.q.On("UpdatePlan", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := svc.UpdatePlan(context.Background(), planID, PlanInput{
		Name: "Growth", DailyRate: decimal.RequireFromString("2.5"),
		DurationDays: 30, MinAmountMicros: 50_000_000,
	})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListFilterDefaults(t *testing.T) {
	limit, offset := ListFilter{}.limitOffset()
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	limit, offset = ListFilter{Page: 3, PageSize: 25}.limitOffset()
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset)
}
