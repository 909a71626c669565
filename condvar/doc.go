// Package condvar provides an asynchronous, notification-only condition
// variable built on top of the waitqueue package.
//
// Unlike sync.Cond, Wait takes a context.Context and returns an error on
// cancellation, and there is no associated Locker: callers re-check their
// own predicate under whatever locking discipline they already use, exactly
// as with a classical condition variable.
//
// # Usage
//
//	cv := condvar.New()
//
//	// waiter
//	for !predicateHolds() {
//		if err := cv.Wait(ctx); err != nil {
//			return err
//		}
//	}
//
//	// notifier, after changing the state the predicate depends on
//	cv.NotifyOne()
//
// Wait may return spuriously, i.e. before the predicate the caller cares
// about actually holds. This is permitted and expected; callers must always
// loop on their own predicate, never treat a Wait return as proof of
// anything.
package condvar
