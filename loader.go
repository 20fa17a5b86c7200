package arface

import (
	"context"
	"sync"
	"sync/atomic"
)

// LoadOp is one asynchronous load operation. Implementations must honor
// cancellation of ctx and must not write shared state after observing it.
type LoadOp func(ctx context.Context) error

// LoadTask is the cancellable handle to one in-flight load.
type LoadTask struct {
	name   string
	cancel context.CancelFunc
	done   atomic.Bool
	doneCh chan struct{}
	err    error // written once, before doneCh closes
}

// Name returns the task's source name, for logs.
func (t *LoadTask) Name() string { return t.name }

// Done reports whether the operation has completed (success or failure).
func (t *LoadTask) Done() bool { return t.done.Load() }

// Cancel requests cancellation. Cancelling a completed or already-cancelled
// task is a no-op, never an error.
func (t *LoadTask) Cancel() { t.cancel() }

// Wait blocks until the operation completes and returns its error.
// A cancelled operation returns its context error.
func (t *LoadTask) Wait() error {
	<-t.doneCh
	return t.err
}

// LoadRegistry tracks in-flight load operations so they can be cancelled
// en masse on shutdown. Safe for concurrent use.
type LoadRegistry struct {
	mu      sync.Mutex
	pending map[*LoadTask]struct{}
	closed  bool
}

// NewLoadRegistry creates an empty registry.
func NewLoadRegistry() *LoadRegistry {
	return &LoadRegistry{pending: make(map[*LoadTask]struct{})}
}

// Go registers a pending load and runs op on its own goroutine with a
// context cancelled either by the returned task or by CancelAll. The task
// removes itself from the registry when op returns.
//
// If CancelAll has already been called, op still runs but its context is
// born cancelled: a well-behaved op returns immediately without touching
// shared state.
func (r *LoadRegistry) Go(parent context.Context, name string, op LoadOp) *LoadTask {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	t := &LoadTask{
		name:   name,
		cancel: cancel,
		doneCh: make(chan struct{}),
	}

	r.mu.Lock()
	if r.closed {
		cancel()
	} else {
		r.pending[t] = struct{}{}
	}
	r.mu.Unlock()

	go func() {
		err := op(ctx)

		// Deregister before signaling completion so an observer that
		// returns from Wait never sees the task still pending.
		r.mu.Lock()
		delete(r.pending, t)
		r.mu.Unlock()

		t.err = err
		t.done.Store(true)
		close(t.doneCh)
		cancel() // release the context regardless of outcome
	}()

	return t
}

// Pending returns the number of registered incomplete loads.
func (r *LoadRegistry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// CancelAll requests cancellation of every incomplete load and marks the
// registry closed: loads started afterwards begin pre-cancelled.
// Idempotent; cancelling tasks that complete concurrently is harmless.
func (r *LoadRegistry) CancelAll() {
	r.mu.Lock()
	r.closed = true
	tasks := make([]*LoadTask, 0, len(r.pending))
	for t := range r.pending {
		tasks = append(tasks, t)
	}
	r.mu.Unlock()

	for _, t := range tasks {
		if !t.Done() {
			t.Cancel()
		}
	}
}
