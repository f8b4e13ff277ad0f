// Package reconcile provides the booking reconciliation domain module.
package reconcile

import (
	"salon_portal_backend/internal/events"
	apphttp "salon_portal_backend/internal/http"
	"salon_portal_backend/internal/reconcile/handler"
	"salon_portal_backend/internal/reconcile/repository"
	"salon_portal_backend/internal/reconcile/resolver"
	"salon_portal_backend/internal/reconcile/service"
	"salon_portal_backend/platform/logger"
	"salon_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the reconciliation domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new reconciliation module with all dependencies wired.
// The digest enqueuer is optional; without it the on-demand digest endpoint
// is not exposed.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, bus events.Bus, digest handler.DigestEnqueuer, log *logger.Logger) *Module {
	repo := repository.New(pool)
	res := resolver.New(repo, repo, repo)
	svc := service.New(repo, res, bus, log)
	h := handler.New(svc, val, digest)

	return &Module{
		handler: h,
		Service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "reconcile"
}

// RegisterRoutes registers the module's routes under the authenticated group
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Authed)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
