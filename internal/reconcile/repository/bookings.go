package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salon_portal_backend/internal/reconcile/domain"
	"salon_portal_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// SourceExternal marks bookings created from inbound platform notifications.
const SourceExternal = "external"

type Booking struct {
	ID              uuid.UUID
	SalonID         uuid.UUID
	ClientID        uuid.UUID
	EmployeeID      uuid.UUID
	ServiceID       uuid.UUID
	Date            time.Time
	StartTime       domain.TimeOfDay
	DurationMinutes int
	PriceCents      int64
	Status          BookingStatus
	Source          string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingWithClient carries the client's name for name-based matching
// during reschedules and cancellations.
type BookingWithClient struct {
	Booking
	ClientName string
}

func pgTime(t domain.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Microseconds(), Valid: true}
}

func timeOfDay(t pgtype.Time) domain.TimeOfDay {
	return domain.TimeOfDayFromMinutes(int(t.Microseconds / 60_000_000))
}

const bookingColumns = `id, salon_id, client_id, employee_id, service_id,
	booking_date, booking_time, duration_minutes, price_cents, status, source, notes,
	created_at, updated_at`

func scanBooking(row pgx.Row, b *Booking) error {
	var start pgtype.Time
	err := row.Scan(
		&b.ID, &b.SalonID, &b.ClientID, &b.EmployeeID, &b.ServiceID,
		&b.Date, &start, &b.DurationMinutes, &b.PriceCents, &b.Status,
		&b.Source, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	b.StartTime = timeOfDay(start)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id, salonID uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND salon_id = $2`

	var b Booking
	if err := scanBooking(r.pool.QueryRow(ctx, query, id, salonID), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("booking not found")
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return &b, nil
}

func (r *Repository) FindByNotesMarker(ctx context.Context, salonID uuid.UUID, marker string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE salon_id = $1 AND notes LIKE '%' || $2 || '%'
		ORDER BY created_at DESC
		LIMIT 1`

	var b Booking
	if err := scanBooking(r.pool.QueryRow(ctx, query, salonID, escapeLike(marker)), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find booking by marker: %w", err)
	}
	return &b, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so the marker matches literally.
// Message ids routinely contain underscores, which would otherwise act as
// single-character wildcards.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *Repository) FindDuplicate(ctx context.Context, salonID uuid.UUID, key DuplicateKey) (*Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE salon_id = $1 AND client_id = $2 AND employee_id = $3 AND service_id = $4
		  AND booking_date = $5 AND booking_time = $6 AND source = $7
		  AND status <> $8
		ORDER BY created_at DESC
		LIMIT 1`

	var b Booking
	err := scanBooking(r.pool.QueryRow(ctx, query,
		salonID, key.ClientID, key.EmployeeID, key.ServiceID,
		key.Date, pgTime(key.Start), key.Source, BookingStatusCancelled,
	), &b)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find duplicate booking: %w", err)
	}
	return &b, nil
}

func (r *Repository) ListScheduledAt(ctx context.Context, salonID uuid.UUID, date time.Time, start domain.TimeOfDay) ([]BookingWithClient, error) {
	query := `SELECT b.id, b.salon_id, b.client_id, b.employee_id, b.service_id,
			b.booking_date, b.booking_time, b.duration_minutes, b.price_cents, b.status,
			b.source, b.notes, b.created_at, b.updated_at,
			TRIM(c.first_name || ' ' || c.last_name)
		FROM bookings b
		JOIN clients c ON c.id = b.client_id
		WHERE b.salon_id = $1 AND b.booking_date = $2 AND b.booking_time = $3
		  AND b.status = $4
		ORDER BY b.created_at DESC`

	rows, err := r.pool.Query(ctx, query, salonID, date, pgTime(start), BookingStatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("list bookings at slot: %w", err)
	}
	defer rows.Close()

	var bookings []BookingWithClient
	for rows.Next() {
		var bc BookingWithClient
		var st pgtype.Time
		err := rows.Scan(
			&bc.ID, &bc.SalonID, &bc.ClientID, &bc.EmployeeID, &bc.ServiceID,
			&bc.Date, &st, &bc.DurationMinutes, &bc.PriceCents, &bc.Status,
			&bc.Source, &bc.Notes, &bc.CreatedAt, &bc.UpdatedAt, &bc.ClientName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bc.StartTime = timeOfDay(st)
		bookings = append(bookings, bc)
	}
	return bookings, rows.Err()
}

func (r *Repository) CreateBooking(ctx context.Context, booking *Booking) error {
	query := `
		INSERT INTO bookings (id, salon_id, client_id, employee_id, service_id,
			booking_date, booking_time, duration_minutes, price_cents, status, source, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		booking.ID, booking.SalonID, booking.ClientID, booking.EmployeeID,
		booking.ServiceID, booking.Date, pgTime(booking.StartTime),
		booking.DurationMinutes, booking.PriceCents, booking.Status,
		booking.Source, booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *Repository) UpdateSlot(ctx context.Context, id, salonID uuid.UUID, date time.Time, start domain.TimeOfDay) error {
	query := `
		UPDATE bookings
		SET booking_date = $1, booking_time = $2, updated_at = NOW()
		WHERE id = $3 AND salon_id = $4`

	tag, err := r.pool.Exec(ctx, query, date, pgTime(start), id, salonID)
	if err != nil {
		return fmt.Errorf("update booking slot: %w", err)
	}
	return requireRowsAffected(tag, "booking")
}

func (r *Repository) UpdateStatus(ctx context.Context, id, salonID uuid.UUID, status BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND salon_id = $3`

	tag, err := r.pool.Exec(ctx, query, status, id, salonID)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return requireRowsAffected(tag, "booking")
}
