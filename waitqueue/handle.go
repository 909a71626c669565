package waitqueue

import "sync/atomic"

// Handle is an opaque notification token parked against a Queue.
//
// A Handle is created fresh for each call to RegisterIf that parks the
// caller. Notify is safe to call more than once: only the first call has an
// effect, so a stale Handle that is invoked after its waiter has already
// given up (or already been woken once) is a safe no-op, never a panic.
//
// A Handle is logically owned by the Queue once RegisterIf parks it; the
// caller's only remaining responsibility is to read from Wait.
type Handle struct {
	ready chan struct{}
	fired atomic.Bool
}

// newHandle returns an unfired Handle ready to be parked.
func newHandle() *Handle {
	return &Handle{ready: make(chan struct{})}
}

// Notify marks h ready. Redundant calls are idempotent no-ops.
func (h *Handle) Notify() {
	if h.fired.CompareAndSwap(false, true) {
		close(h.ready)
	}
}

// Wait returns the channel that becomes receivable once Notify has fired.
// Waiting on it is the suspension point: the caller's goroutine parks on
// this receive until the Queue (or a context cancellation the caller races
// against separately) wakes it.
func (h *Handle) Wait() <-chan struct{} {
	return h.ready
}

// Fired reports whether Notify has already been called. It never blocks.
func (h *Handle) Fired() bool {
	return h.fired.Load()
}
