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
	apphttp "salon_portal_backend/internal/http"
	"salon_portal_backend/internal/http/router"
	"salon_portal_backend/internal/ingest"
	"salon_portal_backend/internal/reconcile"
	"salon_portal_backend/internal/reconcile/handler"
	reconcilerepo "salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/internal/scheduler"
	"salon_portal_backend/platform/config"
	"salon_portal_backend/platform/db"
	"salon_portal_backend/platform/httpkit"
	"salon_portal_backend/platform/logger"
	"salon_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// On-demand digest mails go through the task queue when redis is up
	var digestEnqueuer handler.DigestEnqueuer
	if cfg.GetRedisURL() != "" {
		schedClient, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Warn("task queue unavailable; on-demand digest disabled", "error", err)
		} else {
			digestEnqueuer = schedClient
			defer schedClient.Close()
		}
	}

	reconcileModule := reconcile.NewModule(pool, val, eventBus, digestEnqueuer, log)
	ingestModule := ingest.NewModule(pool, reconcileModule.Service, log)

	// Operator alerts for events parked in the pending queue
	sender := newSender(cfg, log)
	email.RegisterHandlers(eventBus, sender, reconcilerepo.New(pool), log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:         cfg,
		Logger:         log,
		Health:         db.NewPoolAdapter(pool),
		EventBus:       eventBus,
		AuthMiddleware: ingest.APIKeyAuthMiddleware(ingestModule.Repo),
		RateLimiter:    httpkit.NewIngestRateLimiter(5, 20, log),
		Modules: []apphttp.Module{
			reconcileModule,
			ingestModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func newSender(cfg *config.Config, log *logger.Logger) email.Sender {
	if !cfg.IsEmailEnabled() || cfg.GetOperatorEmail() == "" {
		log.Warn("SMTP or OPERATOR_EMAIL not configured; operator alerts disabled")
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
