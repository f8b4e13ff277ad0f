// Package ingest provides the inbound capture bounded context module.
package ingest

import (
	apphttp "salon_portal_backend/internal/http"
	"salon_portal_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the ingest bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	Repo    *Repository
}

// NewModule creates and initializes the ingest module with all its dependencies.
func NewModule(pool *pgxpool.Pool, processor EventProcessor, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(processor, log)

	return &Module{
		handler: handler,
		Repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "ingest"
}

// RegisterRoutes mounts ingest routes on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Authed.Group("/ingest"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
