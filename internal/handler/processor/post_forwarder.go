package processor

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/isometry/wp-trigger-app/internal/delivery"
	"github.com/isometry/wp-trigger-app/internal/helpers"
	"github.com/isometry/wp-trigger-app/internal/trigger"
)

// Dispatcher queues accepted events for delivery after the call has been acknowledged.
type Dispatcher interface {
	Dispatch(ctx context.Context, event delivery.Event) bool
}

type forwarderPostProcessor struct {
	logger     *slog.Logger
	dispatcher Dispatcher
	newID      func() string
}

// WithIDGenerator replaces the delivery ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(p Processor) {
		if f, ok := p.(*forwarderPostProcessor); ok {
			f.newID = newID
		}
	}
}

// NewForwarderPostProcessor returns the Processor handing accepted events to the dispatcher.
// Delivery happens out of band and never alters the acknowledgment.
func NewForwarderPostProcessor(dispatcher Dispatcher, opts ...Option) Processor {
	_inst := &forwarderPostProcessor{dispatcher: dispatcher, logger: helpers.NewNoopLogger(), newID: uuid.NewString}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *forwarderPostProcessor) SetLogger(logger *slog.Logger) {
	p.logger = logger.WithGroup("post-processor:forwarder")
}

func (p *forwarderPostProcessor) Process(ctx context.Context, req any) (*delivery.Bus, error) {
	bus, err := asBus(req)
	if err != nil {
		return nil, err
	}
	if bus.Outcome.Status != trigger.Accepted {
		return bus, nil
	}

	bus.Delivery = &delivery.Event{
		ID:         p.newID(),
		Trigger:    bus.Trigger,
		Event:      string(bus.Outcome.Event),
		ReceivedAt: bus.ReceivedAt,
		Payload:    bus.Outcome.Normalized,
	}
	if p.dispatcher == nil {
		return bus, nil
	}
	bus.Dispatched = p.dispatcher.Dispatch(ctx, *bus.Delivery)
	if !bus.Dispatched {
		p.logger.Warn("event not queued for delivery", slog.String("deliveryID", bus.Delivery.ID))
	}
	return bus, nil
}
