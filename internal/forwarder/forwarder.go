// Package forwarder hands accepted WordPress events to downstream consumers.
package forwarder

import (
	"context"
	"log/slog"

	"github.com/isometry/wp-trigger-app/internal/delivery"
)

// Forwarder delivers a normalized event downstream.
type Forwarder interface {
	Name() string
	Forward(ctx context.Context, event delivery.Event) error
}

type logForwarder struct {
	logger *slog.Logger
}

// NewLogForwarder returns a Forwarder that writes every event to logger at info level.
func NewLogForwarder(logger *slog.Logger) Forwarder {
	return &logForwarder{logger: logger.WithGroup("forwarder:log")}
}

func (f *logForwarder) Name() string {
	return "log"
}

func (f *logForwarder) Forward(ctx context.Context, event delivery.Event) error {
	f.logger.InfoContext(ctx, "wordpress event received",
		slog.String("id", event.ID),
		slog.String("trigger", event.Trigger),
		slog.String("event", event.Event),
		slog.Any("payload", event.Payload))
	return nil
}
