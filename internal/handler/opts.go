package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/isometry/wp-trigger-app/internal/forwarder"
	"github.com/isometry/wp-trigger-app/internal/metrics"
	"github.com/isometry/wp-trigger-app/internal/trigger"
)

// WithLogger sets the logger instance for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithContext sets the fallback context for calls processed without one.
func WithContext(ctx context.Context) Option {
	return func(h *Handler) {
		h.ctx = ctx
	}
}

// WithTrigger sets the trigger name and configuration.
func WithTrigger(name string, config trigger.Config) Option {
	return func(h *Handler) {
		if name != "" {
			h.name = name
		}
		h.config = config
	}
}

// WithForwarders sets the downstream forwarders for accepted events.
func WithForwarders(forwarders ...forwarder.Forwarder) Option {
	return func(h *Handler) {
		h.forwarders = append(h.forwarders, forwarders...)
	}
}

// WithMetrics enables outcome counting.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithAuthFailureStatusCode sets the status code answered when the secret token does not match.
func WithAuthFailureStatusCode(code int) Option {
	return func(h *Handler) {
		h.authFailureStatusCode = code
	}
}

// WithClock replaces the wall clock used to stamp accepted events.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		h.now = now
	}
}

// WithIDGenerator replaces the delivery ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(h *Handler) {
		h.newID = newID
	}
}

// WithForwardTimeout bounds each delivery to a forwarder.
func WithForwardTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		h.forwardTimeout = timeout
	}
}
