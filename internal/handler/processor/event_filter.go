package processor

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/isometry/wp-trigger-app/internal/delivery"
	"github.com/isometry/wp-trigger-app/internal/helpers"
	"github.com/isometry/wp-trigger-app/internal/models"
	"github.com/isometry/wp-trigger-app/internal/trigger"
)

type filterEventProcessor struct {
	logger                *slog.Logger
	now                   func() time.Time
	authFailureStatusCode int
}

// WithClock replaces the wall clock used to stamp accepted events.
func WithClock(now func() time.Time) Option {
	return func(p Processor) {
		if f, ok := p.(*filterEventProcessor); ok {
			f.now = now
		}
	}
}

// WithAuthFailureStatusCode sets the status code answered when the token does not match.
func WithAuthFailureStatusCode(code int) Option {
	return func(p Processor) {
		if f, ok := p.(*filterEventProcessor); ok && code > 0 {
			f.authFailureStatusCode = code
		}
	}
}

// NewFilterEventProcessor returns the Processor running the trigger gates and building the acknowledgment.
func NewFilterEventProcessor(opts ...Option) Processor {
	_inst := &filterEventProcessor{
		logger:                helpers.NewNoopLogger(),
		now:                   time.Now,
		authFailureStatusCode: http.StatusUnauthorized,
	}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *filterEventProcessor) SetLogger(logger *slog.Logger) {
	p.logger = logger.WithGroup("processor:filter")
}

func (p *filterEventProcessor) Process(_ context.Context, req any) (*delivery.Bus, error) {
	bus, err := asBus(req)
	if err != nil {
		return nil, err
	}

	receivedAt := p.now().UTC()
	filter := trigger.Filter{Now: func() time.Time { return receivedAt }}
	bus.ReceivedAt = receivedAt
	bus.Outcome = filter.Evaluate(trigger.Request{Headers: bus.Headers, Body: bus.Payload}, bus.Config)

	switch bus.Outcome.Status {
	case trigger.Unauthorized:
		p.logger.Warn("rejecting webhook call", slog.Any("error", bus.Outcome.Err()))
		bus.Response = models.Response{
			StatusCode: p.authFailureStatusCode,
			Body:       models.Acknowledgment{Error: "Invalid token"},
		}
	case trigger.Ignored:
		p.logger.Info("ignoring webhook call", slog.Any("outcome", bus.Outcome))
		received := bus.Outcome.Received
		bus.Response = models.Response{
			StatusCode: http.StatusOK,
			Body: models.Acknowledgment{
				Status:   models.AckIgnored,
				Reason:   bus.Outcome.Reason,
				Expected: bus.Outcome.Expected,
				Received: &received,
			},
		}
	case trigger.Accepted:
		p.logger.Debug("accepted webhook call", slog.Any("outcome", bus.Outcome))
		bus.Response = models.Response{
			StatusCode: http.StatusOK,
			Body: models.Acknowledgment{
				Status: models.AckSuccess,
				Event:  string(bus.Outcome.Event),
			},
		}
	default:
		return bus, delivery.NewInternalError("unhandled outcome status %q", bus.Outcome.Status)
	}
	return bus, nil
}
