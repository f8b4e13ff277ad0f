package service

import (
	"context"

	"salon_portal_backend/internal/events"
	"salon_portal_backend/internal/reconcile/domain"
	"salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/platform/apperr"
	"salon_portal_backend/platform/phone"

	"github.com/google/uuid"
)

func (s *Service) ListPendingEvents(ctx context.Context, salonID uuid.UUID, status repository.PendingStatus) ([]repository.PendingEvent, error) {
	return s.store.ListPending(ctx, salonID, status)
}

func (s *Service) GetPendingEvent(ctx context.Context, salonID, pendingID uuid.UUID) (*repository.PendingEvent, error) {
	return s.store.GetPendingByID(ctx, pendingID, salonID)
}

// AssignPendingEvent applies a queued new-booking event with the employee and
// service an operator picked. Only events whose payload carries a parsed new
// booking can be assigned; parse failures and other kinds have nothing to
// assign entities to.
func (s *Service) AssignPendingEvent(ctx context.Context, salonID, pendingID, employeeID, serviceID uuid.UUID) (Result, error) {
	pending, err := s.store.GetPendingByID(ctx, pendingID, salonID)
	if err != nil {
		return Result{}, err
	}
	if pending.Status != repository.PendingStatusPending {
		return Result{}, apperr.Conflict("pending event already " + string(pending.Status))
	}
	if len(pending.Payload) == 0 {
		return Result{}, apperr.Unprocessable("pending event has no applicable payload")
	}

	ev, err := domain.UnmarshalEvent(pending.Payload)
	if err != nil {
		return Result{}, apperr.Wrap(apperr.KindUnprocessable, "pending event payload is not readable", err)
	}
	newEv, ok := ev.(domain.NewBookingEvent)
	if !ok {
		return Result{}, apperr.Unprocessable("only new-booking events can be assigned")
	}

	var email *string
	if newEv.Email != "" {
		email = &newEv.Email
	}
	client, err := s.resolver.ResolveClient(ctx, salonID, newEv.Name, phone.NormalizeE164(newEv.Phone), email)
	if err != nil {
		return Result{}, err
	}

	res, err := s.createBooking(ctx, salonID, pending.MessageID, newEv, client, employeeID, serviceID)
	if err != nil {
		return Result{}, err
	}

	if err := s.store.SetPendingStatus(ctx, pendingID, salonID, repository.PendingStatusResolved); err != nil {
		return Result{}, err
	}
	s.bus.Publish(ctx, events.PendingEventResolved{
		BaseEvent: events.NewBaseEvent(),
		PendingID: pendingID,
		SalonID:   salonID,
		BookingID: res.BookingID,
	})
	return res, nil
}

// IgnorePendingEvent dismisses a queued event without applying it.
func (s *Service) IgnorePendingEvent(ctx context.Context, salonID, pendingID uuid.UUID) error {
	pending, err := s.store.GetPendingByID(ctx, pendingID, salonID)
	if err != nil {
		return err
	}
	if pending.Status != repository.PendingStatusPending {
		return apperr.Conflict("pending event already " + string(pending.Status))
	}
	return s.store.SetPendingStatus(ctx, pendingID, salonID, repository.PendingStatusIgnored)
}
