package semaphore

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/notorious-go/asyncsync/waitqueue"
)

// Semaphore is an asynchronous counting semaphore. The zero Semaphore is
// not usable; construct one with New.
//
// available is the lock-free fast path: TryAcquire never takes a lock, and
// Release only does so inside waiters.WakeOne when there are parked
// waiters. waiters only comes into play once TryAcquire fails, i.e. once
// the semaphore is fully checked out.
type Semaphore struct {
	available  atomic.Int64
	maxPermits int64
	waiters    waitqueue.Queue
}

// New creates a Semaphore with maxPermits permits immediately available.
//
// New panics if maxPermits <= 0, treating a zero-or-negative capacity as a
// caller error rather than a semaphore that accepts no caller and parks
// forever: every acquirer of such a semaphore can never make progress, and
// a panic at construction time surfaces that immediately instead of as a
// silent, permanent hang at the first Acquire call.
func New(maxPermits int) *Semaphore {
	if maxPermits <= 0 {
		panic("semaphore: New requires maxPermits > 0")
	}
	s := &Semaphore{
		maxPermits: int64(maxPermits),
		waiters:    waitqueue.New(),
	}
	s.available.Store(int64(maxPermits))
	return s
}

// TryAcquire attempts to acquire a permit without waiting. It returns the
// permit and true on success, or nil and false if none was available.
// TryAcquire never parks and is safe to call from any goroutine.
func (s *Semaphore) TryAcquire() (*Permit, bool) {
	if s.tryDecrement() {
		return &Permit{semaphore: s}, true
	}
	return nil, false
}

// tryDecrement attempts to decrement available from some n > 0 to n-1 via
// compare-and-swap, retrying on a racing update. It is also used,
// unmodified, as the re-check condition passed to waitqueue.RegisterIf
// from Acquire: Acquire relies on cond performing the actual decrement
// when it reports true, so a RegisterIf that does not park means the
// permit is already held.
func (s *Semaphore) tryDecrement() bool {
	for {
		current := s.available.Load()
		if current <= 0 {
			return false
		}
		if s.available.CompareAndSwap(current, current-1) {
			return true
		}
	}
}

// Acquire acquires a permit, waiting asynchronously if none is immediately
// available. It returns ctx.Err() if ctx is cancelled before a permit
// becomes available.
//
// No special bookkeeping is needed on cancellation: a permit is never
// handed directly to a parked waiter at wake time, only a chance to retry
// tryDecrement, so a cancelled Acquire that absorbs a wake has not taken a
// permit away from anyone — the permit it would have raced for remains
// available for the next TryAcquire or the next woken waiter.
func (s *Semaphore) Acquire(ctx context.Context) (*Permit, error) {
	for {
		if s.tryDecrement() {
			return &Permit{semaphore: s}, nil
		}

		h, parked := s.waiters.RegisterIf(s.tryDecrement)
		if !parked {
			// tryDecrement ran inside RegisterIf's atomic window and
			// succeeded there instead — we already hold the permit.
			return &Permit{semaphore: s}, nil
		}

		select {
		case <-h.Wait():
			// Woken: loop around and retry from the top. We do not
			// assume we now hold a permit; an unrelated TryAcquire may
			// have barged ahead of us.
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// AvailablePermits returns the number of permits currently available. This
// is a best-effort snapshot: the value may change before the caller
// observes it and must never be used to make a synchronization decision.
func (s *Semaphore) AvailablePermits() int {
	return int(s.available.Load())
}

// MaxPermits returns the capacity the Semaphore was constructed with.
func (s *Semaphore) MaxPermits() int {
	return int(s.maxPermits)
}

// InUse returns MaxPermits() - AvailablePermits(), a best-effort snapshot
// like AvailablePermits.
func (s *Semaphore) InUse() int {
	return s.MaxPermits() - s.AvailablePermits()
}

// ReducePermits removes up to n permits from the available pool, for
// adaptive concurrency control (e.g. backing off after file-descriptor
// exhaustion). It only removes permits that are currently available, never
// ones already checked out, and returns how many it actually removed,
// which may be less than n.
//
// This is an additive supplement to the core acquire/release contract; it
// does not change any of that contract's invariants or operations.
func (s *Semaphore) ReducePermits(n int) int {
	if n <= 0 {
		return 0
	}
	reduced := int64(0)
	want := int64(n)
	for {
		current := s.available.Load()
		if current <= 0 || reduced >= want {
			return int(reduced)
		}
		take := min(current, want-reduced)
		if s.available.CompareAndSwap(current, current-take) {
			reduced += take
		}
	}
}

// AddPermits adds n permits back to the available pool and wakes up to n
// waiters, one per added permit. Like ReducePermits, this is an additive
// supplement for adaptive concurrency control, not part of the core
// acquire/release operation set.
//
// AddPermits panics if it would push available above MaxPermits: exceeding
// max_permits is a programmer error this module chooses to detect rather
// than silently saturate.
func (s *Semaphore) AddPermits(n int) {
	if n <= 0 {
		return
	}
	newValue := s.available.Add(int64(n))
	if newValue > s.maxPermits {
		panic(fmt.Sprintf("semaphore: AddPermits pushed available (%d) above max_permits (%d)", newValue, s.maxPermits))
	}
	for i := 0; i < n; i++ {
		s.waiters.WakeOne()
	}
}

// release is called by Permit.Release. It increments available by exactly
// one, subject to the max_permits cap, then wakes at most one waiter: the
// increment happens before the wake so that a waiter observing available
// == 0 and then parking is guaranteed to see the corresponding wake after
// this store.
func (s *Semaphore) release() {
	newValue := s.available.Add(1)
	if newValue > s.maxPermits {
		panic(fmt.Sprintf("semaphore: Release pushed available (%d) above max_permits (%d); a Permit was released more than once", newValue, s.maxPermits))
	}
	s.waiters.WakeOne()
}

// Permit is a move-only RAII token returned by TryAcquire and Acquire.
// Release returns it to its parent Semaphore exactly once; calling Release
// more than once on the same Permit panics, since that would otherwise
// silently push available above max_permits — treated as a programmer
// error this module detects rather than tolerates.
type Permit struct {
	semaphore *Semaphore
	released  atomic.Bool
}

// Release returns the permit to its parent Semaphore and wakes at most one
// waiter. Release is safe to call from any goroutine, not only the one
// that acquired the permit.
func (p *Permit) Release() {
	if !p.released.CompareAndSwap(false, true) {
		panic("semaphore: Permit released more than once")
	}
	p.semaphore.release()
}
