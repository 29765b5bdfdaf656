package forwarder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/isometry/wp-trigger-app/internal/delivery"
	"github.com/isometry/wp-trigger-app/internal/helpers"
	"github.com/pkg/errors"
)

// ErrQueueFull is reported for every forwarder when an event is dropped because the delivery queue is full.
var ErrQueueFull = errors.New("delivery queue full")

// Dispatcher defaults.
const (
	DefaultWorkers        = 4
	DefaultQueueSize      = 256
	DefaultForwardTimeout = 30 * time.Second
)

// DispatchOption configures a Dispatcher.
type DispatchOption func(*Dispatcher)

// WithWorkers sets the number of delivery goroutines.
func WithWorkers(n int) DispatchOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize bounds the number of events waiting for a worker.
func WithQueueSize(n int) DispatchOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithForwardTimeout bounds each Forward call.
func WithForwardTimeout(timeout time.Duration) DispatchOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithDispatchLogger sets the dispatcher logger.
func WithDispatchLogger(logger *slog.Logger) DispatchOption {
	return func(d *Dispatcher) {
		d.logger = logger.WithGroup("dispatcher")
	}
}

// WithErrorHandler registers a callback invoked for every failed or dropped delivery.
func WithErrorHandler(fn func(event delivery.Event, forwarder string, err error)) DispatchOption {
	return func(d *Dispatcher) {
		d.onError = fn
	}
}

type job struct {
	ctx   context.Context
	event delivery.Event
}

// Dispatcher delivers events to its forwarders on a bounded pool of workers, detached from the caller.
type Dispatcher struct {
	logger     *slog.Logger
	forwarders []Forwarder
	workers    int
	queueSize  int
	timeout    time.Duration
	onError    func(delivery.Event, string, error)

	mu       sync.RWMutex
	closed   bool
	queue    chan job
	done     chan struct{}
	inflight int
	idle     chan struct{}
}

// NewDispatcher starts the workers delivering to forwarders.
func NewDispatcher(forwarders []Forwarder, opts ...DispatchOption) *Dispatcher {
	_inst := &Dispatcher{
		logger:     helpers.NewNoopLogger(),
		forwarders: forwarders,
		workers:    DefaultWorkers,
		queueSize:  DefaultQueueSize,
		timeout:    DefaultForwardTimeout,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(_inst)
	}
	_inst.queue = make(chan job, _inst.queueSize)

	var wg sync.WaitGroup
	for range _inst.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range _inst.queue {
				_inst.deliver(j)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(_inst.done)
	}()
	return _inst
}

// Dispatch queues event for delivery and returns immediately. The caller's cancellation does not reach the
// forwarders; its values do. It returns false when the dispatcher is closed or the queue is full.
func (d *Dispatcher) Dispatch(ctx context.Context, event delivery.Event) bool {
	if len(d.forwarders) == 0 {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn("dispatcher closed, dropping event", slog.String("deliveryID", event.ID))
		return false
	}

	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), event: event}:
		if d.inflight == 0 {
			d.idle = make(chan struct{})
		}
		d.inflight++
		return true
	default:
		d.logger.Error("dropping event", slog.String("deliveryID", event.ID), slog.Any("error", ErrQueueFull))
		for _, fwd := range d.forwarders {
			d.fail(event, fwd.Name(), ErrQueueFull)
		}
		return false
	}
}

// Flush waits until every queued event has been delivered or ctx is done.
func (d *Dispatcher) Flush(ctx context.Context) error {
	d.mu.RLock()
	if d.inflight == 0 {
		d.mu.RUnlock()
		return nil
	}
	idle := d.idle
	d.mu.RUnlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "pending deliveries")
	}
}

// Close stops accepting events and waits for queued deliveries to finish or ctx to be done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "pending deliveries")
	}
}

func (d *Dispatcher) deliver(j job) {
	logger := d.logger.With(slog.String("deliveryID", j.event.ID))
	for _, fwd := range d.forwarders {
		ctx, cancel := context.WithTimeout(j.ctx, d.timeout)
		err := fwd.Forward(ctx, j.event)
		cancel()
		if err != nil {
			logger.Error("failed to forward event", slog.String("forwarder", fwd.Name()), slog.Any("error", err))
			d.fail(j.event, fwd.Name(), err)
			continue
		}
		logger.Debug("forwarded event", slog.String("forwarder", fwd.Name()))
	}

	d.mu.Lock()
	d.inflight--
	if d.inflight == 0 {
		close(d.idle)
	}
	d.mu.Unlock()
}

func (d *Dispatcher) fail(event delivery.Event, name string, err error) {
	if d.onError != nil {
		d.onError(event, name, err)
	}
}
