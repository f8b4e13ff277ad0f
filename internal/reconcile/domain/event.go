// Package domain holds the core types of the booking reconciliation pipeline.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind classifies an inbound booking notification.
type EventKind string

const (
	EventKindNew        EventKind = "new"
	EventKindReschedule EventKind = "reschedule"
	EventKindCancel     EventKind = "cancel"
)

// Event is the closed set of parsed booking notifications. It is a sealed
// interface: each kind carries only the fields that kind requires, so a
// reschedule can never exist without its old slot.
type Event interface {
	Kind() EventKind
	// ClientName is the human name extracted from the notification subject,
	// used as the fuzzy anchor when locating bookings to move or cancel.
	ClientName() string

	sealed()
}

// NewBookingEvent describes a freshly made appointment.
type NewBookingEvent struct {
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	ServiceName string    `json:"serviceName,omitempty"`
	PriceCents  int64     `json:"priceCents"`
	Date        time.Time `json:"date"`
	Start       TimeOfDay `json:"start"`
	End         TimeOfDay `json:"end"`
	StaffName   string    `json:"staffName,omitempty"`
}

func (NewBookingEvent) Kind() EventKind      { return EventKindNew }
func (e NewBookingEvent) ClientName() string { return e.Name }
func (NewBookingEvent) sealed()              {}

// DurationMinutes derives the appointment length from the time range.
// Not validated at parse time; downstream callers reject non-positive values.
func (e NewBookingEvent) DurationMinutes() int {
	return e.End.Minutes() - e.Start.Minutes()
}

// RescheduleEvent describes an appointment moved from an old slot to a new one.
type RescheduleEvent struct {
	Name     string    `json:"name"`
	OldDate  time.Time `json:"oldDate"`
	OldStart TimeOfDay `json:"oldStart"`
	NewDate  time.Time `json:"newDate"`
	NewStart TimeOfDay `json:"newStart"`
}

func (RescheduleEvent) Kind() EventKind      { return EventKindReschedule }
func (e RescheduleEvent) ClientName() string { return e.Name }
func (RescheduleEvent) sealed()              {}

// CancelEvent describes a cancelled appointment.
type CancelEvent struct {
	Name  string    `json:"name"`
	Date  time.Time `json:"date"`
	Start TimeOfDay `json:"start"`
}

func (CancelEvent) Kind() EventKind      { return EventKindCancel }
func (e CancelEvent) ClientName() string { return e.Name }
func (CancelEvent) sealed()              {}

// eventEnvelope is the serialized form of an Event, used when a partially
// processed event is parked in the pending queue.
type eventEnvelope struct {
	Kind       EventKind        `json:"kind"`
	New        *NewBookingEvent `json:"new,omitempty"`
	Reschedule *RescheduleEvent `json:"reschedule,omitempty"`
	Cancel     *CancelEvent     `json:"cancel,omitempty"`
}

// MarshalEvent serializes an Event for durable storage.
func MarshalEvent(ev Event) ([]byte, error) {
	env := eventEnvelope{Kind: ev.Kind()}
	switch e := ev.(type) {
	case NewBookingEvent:
		env.New = &e
	case RescheduleEvent:
		env.Reschedule = &e
	case CancelEvent:
		env.Cancel = &e
	default:
		return nil, fmt.Errorf("unknown event kind %q", ev.Kind())
	}
	return json.Marshal(env)
}

// UnmarshalEvent restores an Event serialized by MarshalEvent.
func UnmarshalEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case EventKindNew:
		if env.New == nil {
			return nil, fmt.Errorf("event envelope kind %q missing payload", env.Kind)
		}
		return *env.New, nil
	case EventKindReschedule:
		if env.Reschedule == nil {
			return nil, fmt.Errorf("event envelope kind %q missing payload", env.Kind)
		}
		return *env.Reschedule, nil
	case EventKindCancel:
		if env.Cancel == nil {
			return nil, fmt.Errorf("event envelope kind %q missing payload", env.Kind)
		}
		return *env.Cancel, nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", env.Kind)
	}
}
