// Package delivery provides the state shared by the webhook processors and the envelope handed to forwarders.
package delivery

import (
	"log/slog"
	"time"

	"github.com/isometry/wp-trigger-app/internal/models"
	"github.com/isometry/wp-trigger-app/internal/trigger"
)

// Bus represents the central data structure passed along the processor chain for a single webhook call.
type Bus struct {
	// Trigger is the name of the trigger the call was addressed to.
	Trigger string
	Config  trigger.Config

	Body    []byte
	Headers map[string]string
	Payload trigger.Body

	Outcome    trigger.Outcome
	ReceivedAt time.Time
	Delivery   *Event
	// Dispatched reports whether Delivery was queued for the forwarders.
	Dispatched bool
	Response   models.Response
}

// LogValue implements slog.LogValuer.
func (b *Bus) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("trigger", b.Trigger),
		slog.Any("outcome", b.Outcome),
	}
	if b.Delivery != nil {
		attrs = append(attrs, slog.String("deliveryID", b.Delivery.ID))
	}
	return slog.GroupValue(attrs...)
}

// Event is the normalized WordPress event delivered downstream.
type Event struct {
	ID         string         `json:"id"`
	Trigger    string         `json:"trigger"`
	Event      string         `json:"event"`
	ReceivedAt time.Time      `json:"receivedAt"`
	Payload    map[string]any `json:"payload"`
}
