// Package handler wires the webhook processors for a single registered trigger.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/isometry/wp-trigger-app/internal/delivery"
	"github.com/isometry/wp-trigger-app/internal/forwarder"
	"github.com/isometry/wp-trigger-app/internal/handler/processor"
	"github.com/isometry/wp-trigger-app/internal/helpers"
	"github.com/isometry/wp-trigger-app/internal/metrics"
	"github.com/isometry/wp-trigger-app/internal/models"
	"github.com/isometry/wp-trigger-app/internal/trigger"
	"github.com/pkg/errors"
)

// DefaultTriggerName names a trigger registered without an explicit name.
const DefaultTriggerName = "default"

// Option is a functional option used to configure a Handler.
type Option func(*Handler)

// Handler processes inbound WordPress webhook calls for one trigger.
type Handler struct {
	ctx    context.Context
	logger *slog.Logger

	name                  string
	config                trigger.Config
	forwarders            []forwarder.Forwarder
	metrics               *metrics.Metrics
	authFailureStatusCode int
	now                   func() time.Time
	newID                 func() string
	forwardTimeout        time.Duration

	dispatcher *forwarder.Dispatcher
	processors []processor.Processor
}

// NewHandler validates the trigger configuration and builds the processor chain.
func NewHandler(options ...Option) (*Handler, error) {
	_inst := &Handler{
		logger: helpers.NewNoopLogger(),
		name:   DefaultTriggerName,
		config: trigger.Config{Event: trigger.EventAny},
	}
	for _, opt := range options {
		opt(_inst)
	}
	if _inst.ctx == nil {
		_inst.ctx = context.Background()
	}
	if err := _inst.config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "trigger %s", _inst.name)
	}
	_inst.logger = _inst.logger.With(slog.String("trigger", _inst.name))

	filterOpts := []processor.Option{processor.WithAuthFailureStatusCode(_inst.authFailureStatusCode)}
	if _inst.now != nil {
		filterOpts = append(filterOpts, processor.WithClock(_inst.now))
	}
	var forwarderOpts []processor.Option
	if _inst.newID != nil {
		forwarderOpts = append(forwarderOpts, processor.WithIDGenerator(_inst.newID))
	}

	_inst.dispatcher = forwarder.NewDispatcher(_inst.forwarders,
		forwarder.WithDispatchLogger(_inst.logger),
		forwarder.WithForwardTimeout(_inst.forwardTimeout),
		forwarder.WithErrorHandler(func(event delivery.Event, name string, _ error) {
			_inst.metrics.ObserveForwardError(event.Trigger, name)
		}))

	_inst.processors = []processor.Processor{
		processor.NewDecoderPreProcessor(_inst.config),
		processor.NewFilterEventProcessor(filterOpts...),
		processor.NewForwarderPostProcessor(_inst.dispatcher, forwarderOpts...),
		processor.NewMetricsPostProcessor(_inst.metrics),
	}
	for _, p := range _inst.processors {
		p.SetLogger(_inst.logger)
	}

	_inst.logger.Debug("handler ready",
		slog.String("event", string(_inst.config.Event)),
		slog.Bool("tokenConfigured", _inst.config.TokenConfigured()),
		slog.String("postType", _inst.config.PostTypeFilter),
		slog.Any("postStatus", _inst.config.PostStatusFilter),
		slog.Int("forwarders", len(_inst.forwarders)))
	return _inst, nil
}

// Name returns the trigger name.
func (h *Handler) Name() string {
	return h.name
}

// Config returns the trigger configuration.
func (h *Handler) Config() trigger.Config {
	return h.config
}

// Process runs one webhook call through the processor chain. The returned bus is never nil; its Response
// is what the caller should answer. A non-nil error marks a pipeline defect.
func (h *Handler) Process(ctx context.Context, body []byte, headers map[string]string) (*delivery.Bus, error) {
	if ctx == nil {
		ctx = h.ctx
	}
	h.logger.Debug("processing webhook call...")

	bus, err := processor.Process(ctx, &processor.Request{Trigger: h.name, Body: body, Headers: headers}, h.processors...)
	if bus == nil {
		bus = &delivery.Bus{Trigger: h.name, Body: body, Headers: headers}
	}
	if err != nil {
		h.logger.Error("failed to process webhook call", slog.Any("error", err))
		bus.Response = models.Response{StatusCode: http.StatusInternalServerError}
		return bus, err
	}

	h.logger.Info("processed webhook call", slog.Any("bus", bus))
	return bus, nil
}

// Flush waits until every event accepted so far has been handed to the forwarders or ctx is done.
func (h *Handler) Flush(ctx context.Context) error {
	return h.dispatcher.Flush(ctx)
}

// Close stops forwarding new events and drains the pending ones.
func (h *Handler) Close(ctx context.Context) error {
	return errors.Wrapf(h.dispatcher.Close(ctx), "trigger %s", h.name)
}
