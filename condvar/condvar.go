package condvar

import (
	"context"
	"sync/atomic"

	"github.com/notorious-go/asyncsync/waitqueue"
)

// Condvar is an asynchronous, notification-only condition variable: it
// carries no associated state or lock of its own, only a generation counter
// and a waiter queue. The zero Condvar is not usable; construct one with
// New.
type Condvar struct {
	generation atomic.Uint64
	waiters    waitqueue.Queue
}

// New creates an empty Condvar with its generation counter at 0.
func New() *Condvar {
	return &Condvar{waiters: waitqueue.New()}
}

// Wait blocks until the next notification that arrives after Wait was
// called, or until ctx is cancelled. It returns ctx.Err() in the latter
// case.
//
// Wait may return spuriously — on a notification that has nothing to do
// with whatever the caller is waiting for — exactly like sync.Cond.Wait.
// Callers must always re-check their own predicate in a loop:
//
//	for !predicateHolds() {
//		if err := cv.Wait(ctx); err != nil {
//			return err
//		}
//	}
func (c *Condvar) Wait(ctx context.Context) error {
	g := c.generation.Load()

	h, parked := c.waiters.RegisterIf(func() bool {
		return c.generation.Load() != g
	})
	if !parked {
		// The generation had already advanced past g by the time
		// RegisterIf's check ran; no need to wait at all.
		return nil
	}

	select {
	case <-h.Wait():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NotifyOne advances the generation counter and wakes at most one waiter
// registered before this call. It is a no-op, beyond the generation
// advance, if no task is currently waiting.
func (c *Condvar) NotifyOne() {
	c.generation.Add(1)
	c.waiters.WakeOne()
}

// NotifyAll advances the generation counter and wakes every waiter
// registered before this call.
func (c *Condvar) NotifyAll() {
	c.generation.Add(1)
	c.waiters.WakeAll()
}
