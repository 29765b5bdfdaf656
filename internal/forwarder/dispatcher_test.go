package forwarder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/isometry/wp-trigger-app/internal/delivery"
	"github.com/isometry/wp-trigger-app/internal/forwarder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingForwarder records events and blocks each Forward until release is closed or ctx is done.
type blockingForwarder struct {
	mu      sync.Mutex
	release chan struct{}
	started chan struct{}
	events  []delivery.Event
	errs    []error
}

func (b *blockingForwarder) Name() string { return "blocking" }

func (b *blockingForwarder) Forward(ctx context.Context, e delivery.Event) error {
	if b.started != nil {
		b.started <- struct{}{}
	}
	var err error
	select {
	case <-b.release:
	case <-ctx.Done():
		err = ctx.Err()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	b.errs = append(b.errs, err)
	return err
}

func (b *blockingForwarder) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

type failures struct {
	mu   sync.Mutex
	errs map[string][]error
}

func (f *failures) record(_ delivery.Event, name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = make(map[string][]error)
	}
	f.errs[name] = append(f.errs[name], err)
}

func (f *failures) get(name string) []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[name]
}

func released() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func TestDispatcher_DeliversDetachedFromCaller(t *testing.T) {
	fwd := &blockingForwarder{release: released()}
	d := forwarder.NewDispatcher([]forwarder.Forwarder{fwd})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, d.Dispatch(ctx, testEvent))

	require.NoError(t, d.Flush(context.Background()))
	require.Equal(t, 1, fwd.count())
	assert.Equal(t, testEvent, fwd.events[0])
	assert.NoError(t, fwd.errs[0])
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_DispatchDoesNotWaitForDelivery(t *testing.T) {
	fwd := &blockingForwarder{release: make(chan struct{})}
	d := forwarder.NewDispatcher([]forwarder.Forwarder{fwd})

	start := time.Now()
	assert.True(t, d.Dispatch(context.Background(), testEvent))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Equal(t, 0, fwd.count())

	close(fwd.release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 1, fwd.count())
}

func TestDispatcher_ForwardTimeout(t *testing.T) {
	fwd := &blockingForwarder{release: make(chan struct{})}
	f := &failures{}
	d := forwarder.NewDispatcher([]forwarder.Forwarder{fwd},
		forwarder.WithForwardTimeout(20*time.Millisecond),
		forwarder.WithErrorHandler(f.record))

	require.True(t, d.Dispatch(context.Background(), testEvent))
	require.NoError(t, d.Flush(context.Background()))

	errs := f.get("blocking")
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], context.DeadlineExceeded))
	require.NoError(t, d.Close(context.Background()))
}

func TestDispatcher_QueueFull(t *testing.T) {
	fwd := &blockingForwarder{release: make(chan struct{}), started: make(chan struct{}, 2)}
	f := &failures{}
	d := forwarder.NewDispatcher([]forwarder.Forwarder{fwd},
		forwarder.WithWorkers(1),
		forwarder.WithQueueSize(1),
		forwarder.WithErrorHandler(f.record))

	// The first event occupies the worker and the second the queue slot.
	require.True(t, d.Dispatch(context.Background(), testEvent))
	<-fwd.started
	require.True(t, d.Dispatch(context.Background(), testEvent))
	assert.False(t, d.Dispatch(context.Background(), testEvent))
	assert.Equal(t, []error{forwarder.ErrQueueFull}, f.get("blocking"))

	close(fwd.release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 2, fwd.count())
}

func TestDispatcher_Close(t *testing.T) {
	fwd := &blockingForwarder{release: make(chan struct{})}
	d := forwarder.NewDispatcher([]forwarder.Forwarder{fwd})
	require.True(t, d.Dispatch(context.Background(), testEvent))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
	assert.False(t, d.Dispatch(context.Background(), testEvent))

	close(fwd.release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 1, fwd.count())
}

func TestDispatcher_NoForwarders(t *testing.T) {
	d := forwarder.NewDispatcher(nil)
	assert.True(t, d.Dispatch(context.Background(), testEvent))
	assert.NoError(t, d.Flush(context.Background()))
	assert.NoError(t, d.Close(context.Background()))
}
