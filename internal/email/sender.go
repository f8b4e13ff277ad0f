// Package email sends operator notifications about the reconciliation
// pipeline: immediate alerts when an event lands in the pending queue and
// periodic digests of everything still unresolved.
package email

import (
	"context"

	"salon_portal_backend/internal/reconcile/repository"

	"github.com/google/uuid"
)

// Sender delivers operator notifications.
type Sender interface {
	// SendPendingAlert notifies the operator that one event was queued.
	SendPendingAlert(ctx context.Context, pending *repository.PendingEvent) error
	// SendPendingDigest summarizes a salon's unresolved pending events.
	SendPendingDigest(ctx context.Context, salonID uuid.UUID, pending []repository.PendingEvent) error
}

// NopSender discards all notifications. Used when SMTP is not configured.
type NopSender struct{}

func (NopSender) SendPendingAlert(context.Context, *repository.PendingEvent) error {
	return nil
}

func (NopSender) SendPendingDigest(context.Context, uuid.UUID, []repository.PendingEvent) error {
	return nil
}
