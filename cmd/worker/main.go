package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salon_portal_backend/internal/email"
	"salon_portal_backend/internal/events"
	"salon_portal_backend/internal/mailbox"
	"salon_portal_backend/internal/reconcile"
	"salon_portal_backend/internal/scheduler"
	"salon_portal_backend/platform/config"
	"salon_portal_backend/platform/db"
	"salon_portal_backend/platform/logger"
	"salon_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	reconcileModule := reconcile.NewModule(pool, val, eventBus, nil, log)

	var poller *mailbox.Poller
	if cfg.IsMailboxEnabled() {
		poller, err = mailbox.NewPoller(cfg, reconcileModule.Service, log)
		if err != nil {
			log.Error("failed to initialize mailbox poller", "error", err)
			panic("failed to initialize mailbox poller: " + err.Error())
		}
		log.Info("mailbox polling enabled", "host", cfg.GetIMAPHost(), "folder", cfg.GetIMAPFolder())
	} else {
		log.Warn("mailbox not configured; polling disabled")
	}

	sender := newSender(cfg, log)
	var digest scheduler.DigestSender
	if _, nop := sender.(email.NopSender); !nop {
		digest = sender
	}

	worker, err := scheduler.NewWorker(cfg, pool, poller, digest, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	periodic, err := scheduler.NewPeriodic(cfg, cfg.IsMailboxEnabled(), log)
	if err != nil {
		log.Error("failed to initialize periodic scheduler", "error", err)
		panic("failed to initialize periodic scheduler: " + err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return periodic.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		periodic.Shutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("worker stopped", "error", err)
	}
	log.Info("worker shut down")
}

func newSender(cfg *config.Config, log *logger.Logger) email.Sender {
	if !cfg.IsEmailEnabled() || cfg.GetOperatorEmail() == "" {
		log.Warn("SMTP or OPERATOR_EMAIL not configured; operator digests disabled")
		return email.NopSender{}
	}
	return email.NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
		cfg.GetOperatorEmail(),
	)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}
		log.Warn("retrying "+name, "attempt", attempt, "error", lastErr)

		delay := baseDelay * time.Duration(attempt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, attempts, lastErr)
}
