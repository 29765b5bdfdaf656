// Package processor provides a generic interface for processing webhook calls using a list of processors.
package processor

import (
	"context"
	"log/slog"

	"github.com/isometry/wp-trigger-app/internal/delivery"
)

// Option is a function that applies an option to a Processor.
type Option = func(Processor)

// Processor is an interface that defines a method to process a request.
type Processor interface {
	SetLogger(logger *slog.Logger)
	Process(ctx context.Context, req any) (*delivery.Bus, error)
}

// Request is the raw webhook call handed to the first processor of a chain.
type Request struct {
	Trigger string
	Body    []byte
	Headers map[string]string
}

// Process runs req through processors in order, stopping at the first error.
// Processors are shared between concurrent calls and must not keep per-call state.
func Process(ctx context.Context, req any, processors ...Processor) (*delivery.Bus, error) {
	var (
		bus *delivery.Bus
		err error
	)
	for _, p := range processors {
		bus, err = p.Process(ctx, req)
		if err != nil {
			return bus, err
		}
		req = bus
	}
	return bus, nil
}

func applyOpts(m Processor, opts ...Option) {
	for _, opt := range opts {
		opt(m)
	}
}

func asBus(req any) (*delivery.Bus, error) {
	bus, ok := req.(*delivery.Bus)
	if !ok || bus == nil {
		return nil, delivery.NewInternalError("invalid request type. expected *delivery.Bus got %T", req)
	}
	return bus, nil
}
