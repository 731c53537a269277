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
	"github.com/profitbridge/platform-api/internal/repository"
)

func TestSupportOpenCreatesOpenTicket(t *testing.T) {
	store := newMockStore()
	svc := NewSupportService(store)
	userID := uuid.New()

	store.q.On("CreateSupportTicket", mock.Anything, mock.MatchedBy(func(tk *models.SupportTicket) bool {
		return tk.UserID == userID &&
			tk.Subject == "Withdrawal stuck" &&
			tk.Message == "Still processing after a week" &&
			tk.Status == domain.TicketStatusOpen
	})).Return(nil)

	ticket, err := svc.Open(context.Background(), userID, "  Withdrawal stuck  ", "Still processing after a week")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	store.q.AssertExpectations(t)
}

func TestSupportOpenRejectsBlankFields(t *testing.T) {
	store := newMockStore()
	svc := NewSupportService(store)
	userID := uuid.New()

	_, err := svc.Open(context.Background(), userID, "   ", "body")
	assert.Error(t, err)
	_, err = svc.Open(context.Background(), userID, "subject", "")
	assert.Error(t, err)
	_, err = svc.Open(context.Background(), uuid.Nil, "subject", "body")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	store.q.AssertNotCalled(t, "CreateSupportTicket", mock.Anything, mock.Anything)
}

func TestSupportListMinePaginates(t *testing.T) {
	store := newMockStore()
	svc := NewSupportService(store)
	userID := uuid.New()

	store.q.On("ListSupportTicketsByUser", mock.Anything, userID, 10, 10).
		Return([]models.SupportTicket{{UserID: userID, Subject: "Login issue"}}, nil)

	tickets, err := svc.ListMine(context.Background(), userID, 2, 10)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
	store.q.AssertExpectations(t)
}

func TestSupportListAllFilters(t *testing.T) {
	store := newMockStore()
	svc := NewSupportService(store)

	store.q.On("ListSupportTickets", mock.Anything, "withdrawal", "open", 20, 0).
		Return([]repository.TicketRow{{Subject: "Withdrawal stuck", Status: "open"}}, nil)

	rows, err := svc.ListAll(context.Background(), "withdrawal", " OPEN ", 1, 20)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	store.q.AssertExpectations(t)
}

func TestSupportSetStatus(t *testing.T) {
	store := newMockStore()
	svc := NewSupportService(store)
	ticketID := uuid.New()

	t.Run("close", func(t *testing.T) {
		store.q.On("UpdateSupportTicketStatus", mock.Anything, ticketID, domain.TicketStatusClosed).
			Return(int64(1), nil).Once()
		require.NoError(t, svc.SetStatus(context.Background(), ticketID, domain.TicketStatusClosed))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		err := svc.SetStatus(context.Background(), ticketID, "archived")
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("missing ticket", func(t *testing.T) {
		store.q.On("UpdateSupportTicketStatus", mock.Anything, ticketID, domain.TicketStatusOpen).
			Return(int64(0), nil).Once()
		err := svc.SetStatus(context.Background(), ticketID, domain.TicketStatusOpen)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestSupportDelete(t *testing.T) {
	store := newMockStore()
	svc := NewSupportService(store)
	ticketID := uuid.New()

	store.q.On("DeleteSupportTicket", mock.Anything, ticketID).Return(int64(0), nil)

	err := svc.Delete(context.Background(), ticketID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
