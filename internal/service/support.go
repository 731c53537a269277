package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
	"github.com/profitbridge/platform-api/internal/repository"
)

// SupportService owns the help-desk tickets: users open and read their own,
// admins work the queue.
type SupportService struct {
	store Store
}

func NewSupportService(store Store) *SupportService {
	return &SupportService{store: store}
}

// Open files a new ticket for the caller. Tickets always start open.
func (s *SupportService) Open(ctx context.Context, userID uuid.UUID, subject, message string) (*models.SupportTicket, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, errors.New("subject and message are required")
	}

	ticket := &models.SupportTicket{
		ID:      uuid.New(),
		UserID:  userID,
		Subject: subject,
		Message: message,
		Status:  domain.TicketStatusOpen,
	}
	if err := s.store.Repo().CreateSupportTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("create support ticket: %w", err)
	}
	return ticket, nil
}

// ListMine returns the caller's tickets, newest first.
func (s *SupportService) ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]models.SupportTicket, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.store.Repo().ListSupportTicketsByUser(ctx, userID, pageSize, (page-1)*pageSize)
}

// ListAll is the admin queue view, searchable by subject and filterable by
// status.
func (s *SupportService) ListAll(ctx context.Context, subjectContains, status string, page, pageSize int) ([]repository.TicketRow, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return s.store.Repo().ListSupportTickets(ctx, subjectContains, normalizeStatus(status), pageSize, (page-1)*pageSize)
}

// SetStatus moves a ticket between open and closed.
func (s *SupportService) SetStatus(ctx context.Context, ticketID uuid.UUID, status string) error {
	status = normalizeStatus(status)
	if status != domain.TicketStatusOpen && status != domain.TicketStatusClosed {
		return fmt.Errorf("%w: ticket status %q", models.ErrInvalidTransition, status)
	}
	rows, err := s.store.Repo().UpdateSupportTicketStatus(ctx, ticketID, status)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes a ticket outright.
func (s *SupportService) Delete(ctx context.Context, ticketID uuid.UUID) error {
	rows, err := s.store.Repo().DeleteSupportTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}
