// Package semaphore provides an asynchronous counting semaphore for
// bounding concurrency across goroutines.
//
// # Why this package exists
//
// This is not the channel-based semaphore some of this organization's other
// packages use for simple goroutine-count limiting. It exists for callers
// that need strict FIFO wake ordering under contention, cancellation via
// context.Context, and RAII-style permit handles — none of which a raw
// buffered channel gives you for free.
//
// If all you need is "never run more than N of these goroutines at once"
// and you don't care about fairness between them, a buffered channel (or
// this organization's other, simpler semaphore package) is lighter weight
// and should be preferred. If you need weighted (multi-token) acquisition,
// use golang.org/x/sync/semaphore instead — this package only ever
// acquires and releases one permit at a time.
//
// # Usage
//
//	sem := semaphore.New(100)
//
//	permit, err := sem.Acquire(ctx)
//	if err != nil {
//		return err // ctx was cancelled while waiting
//	}
//	defer permit.Release()
//
// # Fairness
//
// Waiters are woken in FIFO registration order (see the waitqueue package
// this is built on), but a just-released permit is not reserved for the
// head waiter: an incoming TryAcquire from an unrelated goroutine may
// legally take it first ("barging"). Progress is still guaranteed as long
// as releases keep happening, because every release wakes the head waiter,
// which then retries; see Semaphore.Acquire.
package semaphore
