// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"salon_portal_backend/internal/events"
	"salon_portal_backend/platform/config"
	"salon_portal_backend/platform/httpkit"
	"salon_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the HTTP server configuration.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (e.g., DB ping).
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// AuthMiddleware authenticates requests by API key and resolves the salon.
	AuthMiddleware gin.HandlerFunc
	// RateLimiter throttles inbound notification traffic per client IP.
	RateLimiter *httpkit.IngestRateLimiter
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
