// Package service orchestrates the booking reconciliation pipeline: parse an
// inbound notification, resolve the entities it names, and apply the booking
// mutation, parking recoverable failures in the pending queue.
package service

import (
	"context"
	"errors"
	"fmt"

	"salon_portal_backend/internal/events"
	"salon_portal_backend/internal/reconcile/domain"
	"salon_portal_backend/internal/reconcile/parser"
	"salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/internal/reconcile/resolver"
	"salon_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the persistence surface the pipeline needs, satisfied by
// repository.Repository.
type Store interface {
	repository.ClientStore
	repository.EmployeeStore
	repository.ServiceStore
	repository.BookingStore
	repository.PendingEventStore
}

// Inbound is one booking notification handed to the pipeline.
type Inbound struct {
	Subject string
	Body    string
	// MessageID identifies the source message. When set it keys both
	// idempotent replay detection and the pending queue; when empty the
	// notification is processed best-effort without either.
	MessageID string
}

// Result is the terminal outcome of one pipeline run. Infrastructure
// failures are returned as errors instead; a Result is always a business
// outcome.
type Result struct {
	Status       domain.PipelineStatus
	BookingID    *uuid.UUID
	Deduplicated bool
	Reason       domain.FailureReason
	Detail       string
}

type Service struct {
	store    Store
	resolver *resolver.Resolver
	bus      events.Bus
	logger   *logger.Logger
}

func New(store Store, res *resolver.Resolver, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, resolver: res, bus: bus, logger: log}
}

// ProcessEvent runs the full pipeline for one notification.
func (s *Service) ProcessEvent(ctx context.Context, salonID uuid.UUID, in Inbound) (Result, error) {
	log := s.logger.WithContext(ctx).WithSalonID(salonID.String())

	if in.MessageID != "" {
		existing, err := s.store.FindByNotesMarker(ctx, salonID, notesMarker(in.MessageID))
		if err != nil {
			return Result{}, err
		}
		if existing != nil {
			log.PipelineResult(string(domain.StatusDone), "already_applied", in.MessageID)
			return Result{Status: domain.StatusDone, BookingID: &existing.ID, Deduplicated: true}, nil
		}
	}

	ev, err := parser.Parse(in.Subject, in.Body)
	if err != nil {
		var perr *parser.ParseError
		if !errors.As(err, &perr) {
			return Result{}, err
		}
		return s.park(ctx, salonID, in, nil, domain.ReasonParseFailed, perr.Error())
	}

	var res Result
	switch e := ev.(type) {
	case domain.NewBookingEvent:
		res, err = s.applyNew(ctx, salonID, in, e)
	case domain.RescheduleEvent:
		res, err = s.applyReschedule(ctx, salonID, e)
	case domain.CancelEvent:
		res, err = s.applyCancel(ctx, salonID, e)
	default:
		return Result{}, fmt.Errorf("unhandled event kind %q", ev.Kind())
	}
	if err != nil {
		return Result{}, err
	}

	if res.Status == domain.StatusDone && in.MessageID != "" {
		// A prior attempt at this message may sit in the pending queue.
		if err := s.store.ResolveByMessageID(ctx, salonID, in.MessageID); err != nil {
			log.PipelineError("resolve_pending", in.MessageID, err)
		}
	}
	log.PipelineResult(string(res.Status), string(res.Reason), in.MessageID)
	return res, nil
}

// park queues the notification for operator review. Without a message id
// there is no stable key to queue under, so the failure is terminal.
func (s *Service) park(ctx context.Context, salonID uuid.UUID, in Inbound, ev domain.Event, reason domain.FailureReason, detail string) (Result, error) {
	if in.MessageID == "" {
		return Result{Status: domain.StatusFailed, Reason: reason, Detail: detail}, nil
	}

	var payload []byte
	if ev != nil {
		var err error
		payload, err = domain.MarshalEvent(ev)
		if err != nil {
			return Result{}, fmt.Errorf("marshal pending payload: %w", err)
		}
	}

	pending := &repository.PendingEvent{
		ID:        uuid.New(),
		SalonID:   salonID,
		MessageID: in.MessageID,
		Subject:   in.Subject,
		Body:      in.Body,
		Reason:    reason,
		Detail:    detail,
		Payload:   payload,
	}
	if err := s.store.UpsertPending(ctx, pending); err != nil {
		return Result{}, err
	}

	s.bus.Publish(ctx, events.PendingEventQueued{
		BaseEvent: events.NewBaseEvent(),
		PendingID: pending.ID,
		SalonID:   salonID,
		MessageID: in.MessageID,
		Reason:    string(reason),
		Detail:    detail,
	})
	return Result{Status: domain.StatusPending, Reason: reason, Detail: detail}, nil
}
