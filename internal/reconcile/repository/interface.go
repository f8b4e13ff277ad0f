package repository

import (
	"context"
	"time"

	"salon_portal_backend/internal/reconcile/domain"

	"github.com/google/uuid"
)

// ClientStore provides the client operations the reconciliation pipeline
// needs. Clients are anchored on phone number within a salon.
type ClientStore interface {
	// GetByPhone returns the client with the given normalized phone number,
	// or nil when no such client exists.
	GetByPhone(ctx context.Context, salonID uuid.UUID, phone string) (*Client, error)
	CreateClient(ctx context.Context, client *Client) error
}

// EmployeeStore lists a salon's staff for fuzzy resolution.
// Inactive employees are included; scoring prefers active ones.
type EmployeeStore interface {
	ListBySalon(ctx context.Context, salonID uuid.UUID) ([]Employee, error)
}

// ServiceStore lists a salon's active service catalog.
type ServiceStore interface {
	ListActiveBySalon(ctx context.Context, salonID uuid.UUID) ([]Service, error)
}

// BookingStore provides the booking-ledger operations of the pipeline.
type BookingStore interface {
	GetByID(ctx context.Context, id, salonID uuid.UUID) (*Booking, error)
	// FindByNotesMarker returns the booking whose notes carry the given
	// idempotency marker, or nil when none does.
	FindByNotesMarker(ctx context.Context, salonID uuid.UUID, marker string) (*Booking, error)
	// FindDuplicate returns an existing non-cancelled booking with the same
	// identity tuple, or nil when none exists.
	FindDuplicate(ctx context.Context, salonID uuid.UUID, key DuplicateKey) (*Booking, error)
	// ListScheduledAt returns scheduled bookings at the slot together with
	// their client names, most recently created first.
	ListScheduledAt(ctx context.Context, salonID uuid.UUID, date time.Time, start domain.TimeOfDay) ([]BookingWithClient, error)
	CreateBooking(ctx context.Context, booking *Booking) error
	UpdateSlot(ctx context.Context, id, salonID uuid.UUID, date time.Time, start domain.TimeOfDay) error
	UpdateStatus(ctx context.Context, id, salonID uuid.UUID, status BookingStatus) error
}

// DuplicateKey is the identity tuple of the pre-insert duplicate check.
type DuplicateKey struct {
	ClientID   uuid.UUID
	EmployeeID uuid.UUID
	ServiceID  uuid.UUID
	Date       time.Time
	Start      domain.TimeOfDay
	Source     string
}

// PendingEventStore persists inbound events awaiting manual resolution.
type PendingEventStore interface {
	// UpsertPending inserts or refreshes the record keyed on (salon, message
	// id), always resetting status to pending.
	UpsertPending(ctx context.Context, ev *PendingEvent) error
	GetPendingByID(ctx context.Context, id, salonID uuid.UUID) (*PendingEvent, error)
	// ListPending returns the salon's pending events, optionally filtered by
	// status.
	ListPending(ctx context.Context, salonID uuid.UUID, status PendingStatus) ([]PendingEvent, error)
	// ResolveByMessageID marks a pending record resolved after a later retry
	// of the same message succeeded. Missing records are not an error.
	ResolveByMessageID(ctx context.Context, salonID uuid.UUID, messageID string) error
	SetPendingStatus(ctx context.Context, id, salonID uuid.UUID, status PendingStatus) error
}
