// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"salon_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Reconciliation Domain Events
// =============================================================================

// ExternalBookingCreated is published when an inbound notification produced
// a new booking in the salon's ledger.
type ExternalBookingCreated struct {
	BaseEvent
	BookingID  uuid.UUID `json:"bookingId"`
	SalonID    uuid.UUID `json:"salonId"`
	ClientID   uuid.UUID `json:"clientId"`
	EmployeeID uuid.UUID `json:"employeeId"`
	ServiceID  uuid.UUID `json:"serviceId"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"startTime"`
	MessageID  string    `json:"messageId,omitempty"`
}

func (e ExternalBookingCreated) EventName() string { return "reconcile.booking.created" }

// ExternalBookingRescheduled is published when an inbound notification moved
// an existing booking to a new slot.
type ExternalBookingRescheduled struct {
	BaseEvent
	BookingID uuid.UUID `json:"bookingId"`
	SalonID   uuid.UUID `json:"salonId"`
	OldDate   time.Time `json:"oldDate"`
	OldStart  string    `json:"oldStart"`
	NewDate   time.Time `json:"newDate"`
	NewStart  string    `json:"newStart"`
	MessageID string    `json:"messageId,omitempty"`
}

func (e ExternalBookingRescheduled) EventName() string { return "reconcile.booking.rescheduled" }

// ExternalBookingCancelled is published when an inbound notification
// cancelled an existing booking.
type ExternalBookingCancelled struct {
	BaseEvent
	BookingID uuid.UUID `json:"bookingId"`
	SalonID   uuid.UUID `json:"salonId"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"startTime"`
	MessageID string    `json:"messageId,omitempty"`
}

func (e ExternalBookingCancelled) EventName() string { return "reconcile.booking.cancelled" }

// PendingEventQueued is published when an inbound notification could not be
// applied automatically and was queued for operator review.
type PendingEventQueued struct {
	BaseEvent
	PendingID uuid.UUID `json:"pendingId"`
	SalonID   uuid.UUID `json:"salonId"`
	MessageID string    `json:"messageId"`
	Reason    string    `json:"reason"`
	Detail    string    `json:"detail,omitempty"`
}

func (e PendingEventQueued) EventName() string { return "reconcile.pending.queued" }

// PendingEventResolved is published when a queued notification was applied,
// either by a successful retry or by operator assignment.
type PendingEventResolved struct {
	BaseEvent
	PendingID uuid.UUID  `json:"pendingId"`
	SalonID   uuid.UUID  `json:"salonId"`
	BookingID *uuid.UUID `json:"bookingId,omitempty"`
}

func (e PendingEventResolved) EventName() string { return "reconcile.pending.resolved" }
