package semaphore

import (
	"context"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// TestHighContention runs many more tasks than there are permits, each
// acquiring and releasing once, checked for never exceeding the permit cap
// and for eventually draining.
func TestHighContention(t *testing.T) {
	const permits = 10
	const tasks = 1000

	s := New(permits)
	ctx := context.Background()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < tasks; i++ {
		g.Go(func() error {
			p, err := s.Acquire(gctx)
			if err != nil {
				return err
			}
			if inUse := s.InUse(); inUse > permits {
				t.Errorf("InUse() = %d, want <= %d", inUse, permits)
			}
			p.Release()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("errgroup: %v", err)
	}
	if got := s.AvailablePermits(); got != permits {
		t.Fatalf("AvailablePermits() = %d, want %d", got, permits)
	}
}

// TestRapidAcquireReleaseCycles hammers a single permit with repeated
// TryAcquire/Release calls with no parking involved, checking the fast
// path never corrupts the counter.
func TestRapidAcquireReleaseCycles(t *testing.T) {
	s := New(1)
	const cycles = 10000

	for i := 0; i < cycles; i++ {
		p, ok := s.TryAcquire()
		if !ok {
			t.Fatalf("cycle %d: TryAcquire failed on an uncontended semaphore", i)
		}
		p.Release()
	}
	if got := s.AvailablePermits(); got != 1 {
		t.Fatalf("AvailablePermits() = %d, want 1", got)
	}
}

// TestCancellationStress saturates a semaphore with many parked acquires,
// roughly half of which are cancelled via ctx before ever receiving a
// permit. No permit may be lost: every surviving acquirer must eventually
// complete.
func TestCancellationStress(t *testing.T) {
	const permits = 1
	const total = 100
	const cancelled = 50

	s := New(permits)
	p0, err := s.Acquire(context.Background())
	if err != nil {
		t.Fatalf("initial Acquire: %v", err)
	}

	type result struct {
		err error
	}
	results := make(chan result, total)
	cancels := make([]context.CancelFunc, 0, cancelled)

	for i := 0; i < total; i++ {
		var ctx context.Context
		if i < cancelled {
			c, cancel := context.WithCancel(context.Background())
			ctx = c
			cancels = append(cancels, cancel)
		} else {
			ctx = context.Background()
		}
		go func(ctx context.Context) {
			p, err := s.Acquire(ctx)
			if err == nil {
				p.Release()
			}
			results <- result{err: err}
		}(ctx)
	}

	time.Sleep(50 * time.Millisecond)
	for _, cancel := range cancels {
		cancel()
	}
	p0.Release()

	succeeded, failed := 0, 0
	for i := 0; i < total; i++ {
		select {
		case r := <-results:
			if r.err == nil {
				succeeded++
			} else {
				failed++
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d/%d acquires completed", i, total)
		}
	}

	if succeeded+failed != total {
		t.Fatalf("succeeded(%d) + failed(%d) != total(%d)", succeeded, failed, total)
	}
	if succeeded < total-cancelled {
		t.Fatalf("succeeded = %d, want at least %d (non-cancelled acquires must eventually succeed)", succeeded, total-cancelled)
	}
	if got := s.AvailablePermits(); got != permits {
		t.Fatalf("AvailablePermits() = %d, want %d (no permit lost or leaked)", got, permits)
	}
}

// TestSaturatedWaitersAllComplete queues waiters behind the only permit and
// checks that they all complete once releases start flowing one at a time.
// The goroutines' registration order is not controlled, so the order in
// which they complete is not checked.
func TestSaturatedWaitersAllComplete(t *testing.T) {
	const permits = 1
	const waiters = 20

	s := New(permits)
	held, err := s.Acquire(context.Background())
	if err != nil {
		t.Fatalf("initial Acquire: %v", err)
	}

	order := make(chan int, waiters)
	registered := make(chan struct{}, waiters)
	for i := 0; i < waiters; i++ {
		go func(id int) {
			registered <- struct{}{}
			p, err := s.Acquire(context.Background())
			if err != nil {
				t.Errorf("Acquire(%d): %v", id, err)
				return
			}
			order <- id
			p.Release()
		}(i)
	}

	for i := 0; i < waiters; i++ {
		<-registered
	}
	time.Sleep(20 * time.Millisecond) // let them all park before releasing.

	held.Release()

	for i := 0; i < waiters; i++ {
		select {
		case <-order:
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d/%d waiters completed", i, waiters)
		}
	}
}
