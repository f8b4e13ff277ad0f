package scheduler

import (
	"context"
	"fmt"

	"salon_portal_backend/internal/mailbox"
	"salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/platform/config"
	"salon_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DigestSender mails a summary of unresolved pending events to the operator.
// Implemented by the email notifier; nil disables digests.
type DigestSender interface {
	SendPendingDigest(ctx context.Context, salonID uuid.UUID, pending []repository.PendingEvent) error
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	poller *mailbox.Poller
	digest DigestSender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, poller *mailbox.Poller, digest DigestSender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		poller: poller,
		digest: digest,
		log:    log,
	}

	mux.HandleFunc(TaskMailboxPoll, w.handleMailboxPoll)
	mux.HandleFunc(TaskPendingDigest, w.handlePendingDigest)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleMailboxPoll(ctx context.Context, _ *asynq.Task) error {
	if w.poller == nil {
		return nil
	}
	return w.poller.Poll(ctx)
}

// handlePendingDigest mails open pending events. An empty salon id in the
// payload fans out to every salon that has unresolved events.
func (w *Worker) handlePendingDigest(ctx context.Context, task *asynq.Task) error {
	if w.digest == nil {
		return nil
	}

	payload, err := ParsePendingDigestPayload(task)
	if err != nil {
		return err
	}

	var salons []uuid.UUID
	if payload.SalonID == "" {
		salons, err = w.repo.SalonsWithPending(ctx)
		if err != nil {
			return err
		}
	} else {
		salonID, err := uuid.Parse(payload.SalonID)
		if err != nil {
			return err
		}
		salons = []uuid.UUID{salonID}
	}

	for _, salonID := range salons {
		pending, err := w.repo.ListPending(ctx, salonID, repository.PendingStatusPending)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			continue
		}
		if err := w.digest.SendPendingDigest(ctx, salonID, pending); err != nil {
			return err
		}
	}
	return nil
}
