package email

import (
	"context"
	"fmt"

	"salon_portal_backend/internal/events"
	"salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/platform/logger"
)

// RegisterHandlers subscribes the operator alert to pending-queue events.
func RegisterHandlers(bus events.Bus, sender Sender, repo *repository.Repository, log *logger.Logger) {
	bus.Subscribe(events.PendingEventQueued{}.EventName(), events.HandlerFunc(
		func(ctx context.Context, event events.Event) error {
			queued, ok := event.(events.PendingEventQueued)
			if !ok {
				return fmt.Errorf("unexpected event type %T", event)
			}

			pending, err := repo.GetPendingByID(ctx, queued.PendingID, queued.SalonID)
			if err != nil {
				return err
			}
			if err := sender.SendPendingAlert(ctx, pending); err != nil {
				log.Error("send pending alert", "error", err, "pendingId", queued.PendingID)
				return err
			}
			return nil
		},
	))
}
