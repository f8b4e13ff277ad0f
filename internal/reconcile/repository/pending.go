package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salon_portal_backend/internal/reconcile/domain"
	"salon_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PendingStatus string

const (
	PendingStatusPending  PendingStatus = "pending"
	PendingStatusResolved PendingStatus = "resolved"
	PendingStatusIgnored  PendingStatus = "ignored"
)

// PendingEvent is an inbound notification that could not be applied
// automatically and awaits operator action. Payload holds the parsed
// event when parsing succeeded, so manual assignment can replay it
// without re-parsing the source text.
type PendingEvent struct {
	ID         uuid.UUID
	SalonID    uuid.UUID
	MessageID  string
	Subject    string
	Body       string
	Reason     domain.FailureReason
	Detail     string
	Payload    []byte
	Status     PendingStatus
	ResolvedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const pendingColumns = `id, salon_id, message_id, subject, body, reason, detail,
	payload, status, resolved_at, created_at, updated_at`

func scanPending(row pgx.Row, p *PendingEvent) error {
	return row.Scan(
		&p.ID, &p.SalonID, &p.MessageID, &p.Subject, &p.Body, &p.Reason,
		&p.Detail, &p.Payload, &p.Status, &p.ResolvedAt, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *Repository) UpsertPending(ctx context.Context, ev *PendingEvent) error {
	query := `
		INSERT INTO pending_events (id, salon_id, message_id, subject, body, reason, detail, payload, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (salon_id, message_id) DO UPDATE SET
			subject = EXCLUDED.subject,
			body = EXCLUDED.body,
			reason = EXCLUDED.reason,
			detail = EXCLUDED.detail,
			payload = EXCLUDED.payload,
			status = EXCLUDED.status,
			resolved_at = NULL,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		ev.ID, ev.SalonID, ev.MessageID, ev.Subject, ev.Body,
		ev.Reason, ev.Detail, ev.Payload, PendingStatusPending,
	).Scan(&ev.ID, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert pending event: %w", err)
	}
	ev.Status = PendingStatusPending
	return nil
}

func (r *Repository) GetPendingByID(ctx context.Context, id, salonID uuid.UUID) (*PendingEvent, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_events WHERE id = $1 AND salon_id = $2`

	var p PendingEvent
	if err := scanPending(r.pool.QueryRow(ctx, query, id, salonID), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("pending event not found")
		}
		return nil, fmt.Errorf("get pending event: %w", err)
	}
	return &p, nil
}

func (r *Repository) ListPending(ctx context.Context, salonID uuid.UUID, status PendingStatus) ([]PendingEvent, error) {
	query := `SELECT ` + pendingColumns + `
		FROM pending_events
		WHERE salon_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, salonID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list pending events: %w", err)
	}
	defer rows.Close()

	var events []PendingEvent
	for rows.Next() {
		var p PendingEvent
		if err := scanPending(rows, &p); err != nil {
			return nil, fmt.Errorf("scan pending event: %w", err)
		}
		events = append(events, p)
	}
	return events, rows.Err()
}

func (r *Repository) ResolveByMessageID(ctx context.Context, salonID uuid.UUID, messageID string) error {
	if messageID == "" {
		return nil
	}
	query := `
		UPDATE pending_events
		SET status = $1, resolved_at = NOW(), updated_at = NOW()
		WHERE salon_id = $2 AND message_id = $3 AND status = $4`

	if _, err := r.pool.Exec(ctx, query, PendingStatusResolved, salonID, messageID, PendingStatusPending); err != nil {
		return fmt.Errorf("resolve pending event: %w", err)
	}
	return nil
}

// SalonsWithPending returns the salons that currently have unresolved
// pending events, for digest fan-out.
func (r *Repository) SalonsWithPending(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT salon_id FROM pending_events WHERE status = $1`

	rows, err := r.pool.Query(ctx, query, PendingStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list salons with pending events: %w", err)
	}
	defer rows.Close()

	var salons []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan salon id: %w", err)
		}
		salons = append(salons, id)
	}
	return salons, rows.Err()
}

func (r *Repository) SetPendingStatus(ctx context.Context, id, salonID uuid.UUID, status PendingStatus) error {
	query := `
		UPDATE pending_events
		SET status = $1,
			resolved_at = CASE WHEN $1 = 'pending' THEN NULL ELSE NOW() END,
			updated_at = NOW()
		WHERE id = $2 AND salon_id = $3`

	tag, err := r.pool.Exec(ctx, query, status, id, salonID)
	if err != nil {
		return fmt.Errorf("update pending event status: %w", err)
	}
	return requireRowsAffected(tag, "pending event")
}
