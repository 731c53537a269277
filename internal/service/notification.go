package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/profitbridge/platform-api/internal/models"
)

// NotificationService reads and acknowledges dashboard notifications.
// Creation happens inside the moderation transactions, not here.
type NotificationService struct {
	store Store
}

func NewNotificationService(store Store) *NotificationService {
	return &NotificationService{store: store}
}

// NotificationPage is one page of notifications plus the unread total across
// all pages.
type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int64                 `json:"unread"`
}

// List returns the user's notifications, newest first, 1-indexed pages.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, page, pageSize int) (*NotificationPage, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	q := s.store.Repo()
	notifications, err := q.ListNotificationsByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := q.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}
	return &NotificationPage{Notifications: notifications, Unread: unread}, nil
}

// MarkRead acknowledges one of the caller's notifications. Already-read
// notifications are a no-op, not an error.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return models.ErrUnauthenticated
	}
	rows, err := s.store.Repo().MarkNotificationRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkAllRead acknowledges everything the caller has.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return models.ErrUnauthenticated
	}
	_, err := s.store.Repo().MarkAllNotificationsRead(ctx, userID)
	return err
}
