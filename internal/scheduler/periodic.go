package scheduler

import (
	"fmt"
	"time"

	"salon_portal_backend/platform/config"
	"salon_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// digestCron fires the pending digest every morning at 08:00 server time.
const digestCron = "0 8 * * *"

// Periodic registers the recurring tasks: mailbox polling at the configured
// interval and the daily pending digest.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, mailboxEnabled bool, log *logger.Logger) (*Periodic, error) {
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

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})

	if mailboxEnabled {
		interval := cfg.GetMailboxPollInterval()
		if interval < time.Minute {
			interval = time.Minute
		}
		spec := fmt.Sprintf("@every %s", interval)
		if _, err := scheduler.Register(spec, NewMailboxPollTask(), asynq.Queue(queue)); err != nil {
			return nil, fmt.Errorf("register mailbox poll: %w", err)
		}
	}

	digestTask, err := NewPendingDigestTask(PendingDigestPayload{})
	if err != nil {
		return nil, err
	}
	if _, err := scheduler.Register(digestCron, digestTask, asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register pending digest: %w", err)
	}

	return &Periodic{scheduler: scheduler, log: log}, nil
}

// Run starts the periodic scheduler and blocks until it stops.
func (p *Periodic) Run() error {
	return p.scheduler.Run()
}

// Shutdown stops the periodic scheduler.
func (p *Periodic) Shutdown() {
	p.scheduler.Shutdown()
}
