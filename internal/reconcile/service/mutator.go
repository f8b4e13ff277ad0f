package service

import (
	"context"
	"strings"
	"time"

	"salon_portal_backend/internal/events"
	"salon_portal_backend/internal/reconcile/domain"
	"salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/platform/phone"
	"salon_portal_backend/platform/textfold"

	"github.com/google/uuid"
)

// notesMarker is the idempotency token written into a booking's notes when it
// was created from an external notification. Replays of the same message find
// the booking through it.
func notesMarker(messageID string) string {
	return "[msg:" + messageID + "]"
}

func (s *Service) applyNew(ctx context.Context, salonID uuid.UUID, in Inbound, ev domain.NewBookingEvent) (Result, error) {
	if ev.DurationMinutes() <= 0 {
		return s.park(ctx, salonID, in, ev, domain.ReasonParseFailed, "visit end time precedes its start")
	}

	var email *string
	if ev.Email != "" {
		email = &ev.Email
	}
	client, err := s.resolver.ResolveClient(ctx, salonID, ev.Name, phone.NormalizeE164(ev.Phone), email)
	if err != nil {
		return Result{}, err
	}

	employee, err := s.resolver.ResolveEmployee(ctx, salonID, ev.StaffName)
	if err != nil {
		return Result{}, err
	}
	if employee == nil {
		return s.park(ctx, salonID, in, ev, domain.ReasonEmployeeNotFound, missingDetail("staff", ev.StaffName))
	}

	svc, err := s.resolver.ResolveService(ctx, salonID, ev.ServiceName)
	if err != nil {
		return Result{}, err
	}
	if svc == nil {
		return s.park(ctx, salonID, in, ev, domain.ReasonServiceNotFound, missingDetail("service", ev.ServiceName))
	}

	return s.createBooking(ctx, salonID, in.MessageID, ev, client, employee.ID, svc.ID)
}

// createBooking runs the duplicate check and inserts the booking. Shared by
// the automated path and operator assignment of a queued event.
func (s *Service) createBooking(ctx context.Context, salonID uuid.UUID, messageID string, ev domain.NewBookingEvent, client *repository.Client, employeeID, serviceID uuid.UUID) (Result, error) {
	dup, err := s.store.FindDuplicate(ctx, salonID, repository.DuplicateKey{
		ClientID:   client.ID,
		EmployeeID: employeeID,
		ServiceID:  serviceID,
		Date:       ev.Date,
		Start:      ev.Start,
		Source:     repository.SourceExternal,
	})
	if err != nil {
		return Result{}, err
	}
	if dup != nil {
		return Result{Status: domain.StatusDone, BookingID: &dup.ID, Deduplicated: true}, nil
	}

	var notes *string
	if messageID != "" {
		n := notesMarker(messageID)
		notes = &n
	}
	booking := &repository.Booking{
		ID:              uuid.New(),
		SalonID:         salonID,
		ClientID:        client.ID,
		EmployeeID:      employeeID,
		ServiceID:       serviceID,
		Date:            ev.Date,
		StartTime:       ev.Start,
		DurationMinutes: ev.DurationMinutes(),
		PriceCents:      ev.PriceCents,
		Status:          repository.BookingStatusScheduled,
		Source:          repository.SourceExternal,
		Notes:           notes,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return Result{}, err
	}

	s.bus.Publish(ctx, events.ExternalBookingCreated{
		BaseEvent:  events.NewBaseEvent(),
		BookingID:  booking.ID,
		SalonID:    salonID,
		ClientID:   client.ID,
		EmployeeID: employeeID,
		ServiceID:  serviceID,
		Date:       ev.Date,
		StartTime:  ev.Start.String(),
		MessageID:  messageID,
	})
	return Result{Status: domain.StatusDone, BookingID: &booking.ID}, nil
}

func (s *Service) applyReschedule(ctx context.Context, salonID uuid.UUID, ev domain.RescheduleEvent) (Result, error) {
	booking, err := s.findBookingAt(ctx, salonID, ev.Name, ev.OldDate, ev.OldStart)
	if err != nil {
		return Result{}, err
	}
	if booking == nil {
		return Result{
			Status: domain.StatusFailed,
			Reason: domain.ReasonBookingNotFound,
			Detail: "no booking found to reschedule",
		}, nil
	}

	if err := s.store.UpdateSlot(ctx, booking.ID, salonID, ev.NewDate, ev.NewStart); err != nil {
		return Result{}, err
	}

	s.bus.Publish(ctx, events.ExternalBookingRescheduled{
		BaseEvent: events.NewBaseEvent(),
		BookingID: booking.ID,
		SalonID:   salonID,
		OldDate:   ev.OldDate,
		OldStart:  ev.OldStart.String(),
		NewDate:   ev.NewDate,
		NewStart:  ev.NewStart.String(),
	})
	return Result{Status: domain.StatusDone, BookingID: &booking.ID}, nil
}

func (s *Service) applyCancel(ctx context.Context, salonID uuid.UUID, ev domain.CancelEvent) (Result, error) {
	booking, err := s.findBookingAt(ctx, salonID, ev.Name, ev.Date, ev.Start)
	if err != nil {
		return Result{}, err
	}
	if booking == nil {
		return Result{
			Status: domain.StatusFailed,
			Reason: domain.ReasonBookingNotFound,
			Detail: "no booking found to cancel",
		}, nil
	}

	if err := s.store.UpdateStatus(ctx, booking.ID, salonID, repository.BookingStatusCancelled); err != nil {
		return Result{}, err
	}

	s.bus.Publish(ctx, events.ExternalBookingCancelled{
		BaseEvent: events.NewBaseEvent(),
		BookingID: booking.ID,
		SalonID:   salonID,
		Date:      ev.Date,
		StartTime: ev.Start.String(),
	})
	return Result{Status: domain.StatusDone, BookingID: &booking.ID}, nil
}

// findBookingAt locates the scheduled booking at the slot whose client name
// loosely matches the notification's. The list arrives most recent first, so
// a name match picks the latest booking. A slot occupied only by other
// clients' bookings is no match: acting on those would move or cancel
// someone else's visit.
func (s *Service) findBookingAt(ctx context.Context, salonID uuid.UUID, name string, date time.Time, start domain.TimeOfDay) (*repository.Booking, error) {
	candidates, err := s.store.ListScheduledAt(ctx, salonID, date, start)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if namesLooselyMatch(name, candidates[i].ClientName) {
			return &candidates[i].Booking, nil
		}
	}
	return nil, nil
}

func missingDetail(what, extracted string) string {
	if extracted == "" {
		return "notification names no " + what
	}
	return "no " + what + " matches " + strings.TrimSpace(extracted)
}

// namesLooselyMatch folds both names and accepts either containing the other.
func namesLooselyMatch(a, b string) bool {
	fa, fb := textfold.Fold(a), textfold.Fold(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}
