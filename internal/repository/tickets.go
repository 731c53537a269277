package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/profitbridge/platform-api/internal/models"
)

// TicketRow is the admin view of a support ticket, joined with the owner's
// email for the moderation table.
type TicketRow struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Repository) CreateSupportTicket(ctx context.Context, t *models.SupportTicket) error {
	query := `INSERT INTO support_tickets (id, user_id, subject, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query, t.ID, t.UserID, t.Subject, t.Message, t.Status).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create support ticket: %w", err)
	}
	return nil
}

func (r *Repository) ListSupportTicketsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.SupportTicket, error) {
	query := `SELECT id, user_id, subject, message, status, created_at, updated_at
		FROM support_tickets
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list support tickets: %w", err)
	}
	defer rows.Close()

	var tickets []models.SupportTicket
	for rows.Next() {
		var t models.SupportTicket
		if err := rows.Scan(&t.ID, &t.UserID, &t.Subject, &t.Message, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan support ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// ListSupportTickets returns the admin view: subject search and status
// filter first, then paginated.
func (r *Repository) ListSupportTickets(ctx context.Context, subjectFilter, statusFilter string, limit, offset int) ([]TicketRow, error) {
	query := `SELECT t.id, t.user_id, p.email, t.subject, t.message, t.status, t.created_at, t.updated_at
		FROM support_tickets t
		JOIN profiles p ON p.id = t.user_id
		WHERE ($1 = '' OR t.subject ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR t.status = $2)
		ORDER BY t.created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, subjectFilter, statusFilter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list support tickets: %w", err)
	}
	defer rows.Close()

	var out []TicketRow
	for rows.Next() {
		var row TicketRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.UserEmail, &row.Subject, &row.Message,
			&row.Status, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan support ticket row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateSupportTicketStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE support_tickets SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update support ticket status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) DeleteSupportTicket(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM support_tickets WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete support ticket: %w", err)
	}
	return tag.RowsAffected(), nil
}
