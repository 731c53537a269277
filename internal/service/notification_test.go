package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/profitbridge/platform-api/internal/models"
)

func TestNotificationListIncludesUnreadCount(t *testing.T) {
	store := newMockStore()
	svc := NewNotificationService(store)
	userID := uuid.New()

	store.q.On("ListNotificationsByUser", mock.Anything, userID, 10, 10).
		Return([]models.Notification{{UserID: userID, Title: "Deposit approved"}}, nil)
	store.q.On("CountUnreadNotifications", mock.Anything, userID).Return(int64(3), nil)

	// Page 2 of 10 translates to offset 10.
	page, err := svc.List(context.Background(), userID, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 1)
	assert.Equal(t, int64(3), page.Unread)
	store.q.AssertExpectations(t)
}

func TestNotificationListRequiresUser(t *testing.T) {
	svc := NewNotificationService(newMockStore())

	_, err := svc.List(context.Background(), uuid.Nil, 1, 10)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	store := newMockStore()
	svc := NewNotificationService(store)
	userID := uuid.New()
	notifID := uuid.New()

	// Zero rows means the notification is missing or belongs to someone else.
	store.q.On("MarkNotificationRead", mock.Anything, userID, notifID).Return(int64(0), nil)

	err := svc.MarkRead(context.Background(), userID, notifID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	store := newMockStore()
	svc := NewNotificationService(store)
	userID := uuid.New()

	store.q.On("MarkAllNotificationsRead", mock.Anything, userID).Return(int64(4), nil)

	require.NoError(t, svc.MarkAllRead(context.Background(), userID))
	store.q.AssertExpectations(t)
}
