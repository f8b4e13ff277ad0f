// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// SalonIDKey is the context key for the salon (tenant) ID
	SalonIDKey contextKey = "salon_id"
	// MessageIDKey is the context key for the inbound message ID
	MessageIDKey contextKey = "message_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id, salon_id, and message_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = &Logger{Logger: newLogger.With(slog.String("request_id", requestID))}
	}

	if salonID, ok := ctx.Value(SalonIDKey).(string); ok && salonID != "" {
		newLogger = newLogger.WithSalonID(salonID)
	}

	if messageID, ok := ctx.Value(MessageIDKey).(string); ok && messageID != "" {
		newLogger = newLogger.WithMessageID(messageID)
	}

	return newLogger
}

// WithSalonID returns a logger with the salon (tenant) ID attached.
func (l *Logger) WithSalonID(salonID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("salon_id", salonID)),
	}
}

// WithMessageID returns a logger with the inbound message ID attached.
func (l *Logger) WithMessageID(messageID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("message_id", messageID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// PipelineResult logs the outcome of a reconciliation pipeline run.
func (l *Logger) PipelineResult(status, kind, messageID string) {
	l.Info("pipeline_result",
		slog.String("status", status),
		slog.String("kind", kind),
		slog.String("message_id", messageID),
	)
}

// PipelineError logs a reconciliation pipeline failure.
func (l *Logger) PipelineError(stage, messageID string, err error) {
	l.Error("pipeline_error",
		slog.String("stage", stage),
		slog.String("message_id", messageID),
		slog.String("error", err.Error()),
	)
}

// MailboxEvent logs IMAP poller activity.
func (l *Logger) MailboxEvent(event string, count int) {
	l.Info("mailbox_event",
		slog.String("event", event),
		slog.Int("count", count),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
