package processor

import (
	"context"
	"log/slog"

	"github.com/isometry/wp-trigger-app/internal/delivery"
	"github.com/isometry/wp-trigger-app/internal/helpers"
	"github.com/isometry/wp-trigger-app/internal/metrics"
)

type metricsPostProcessor struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewMetricsPostProcessor returns the Processor counting outcomes.
func NewMetricsPostProcessor(m *metrics.Metrics, opts ...Option) Processor {
	_inst := &metricsPostProcessor{metrics: m, logger: helpers.NewNoopLogger()}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *metricsPostProcessor) SetLogger(logger *slog.Logger) {
	p.logger = logger.WithGroup("post-processor:metrics")
}

func (p *metricsPostProcessor) Process(_ context.Context, req any) (*delivery.Bus, error) {
	bus, err := asBus(req)
	if err != nil {
		return nil, err
	}
	if p.metrics == nil {
		return bus, nil
	}
	p.metrics.ObserveOutcome(bus.Trigger, string(bus.Outcome.Status), bus.Outcome.Reason)
	return bus, nil
}
