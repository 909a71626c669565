// Package waitqueue provides the race-free parking and waking primitive
// shared by the semaphore and condvar packages.
//
// A Queue stores notification handles parked against some external
// condition and exposes three operations: RegisterIf, which atomically
// checks a condition and parks the caller only if the condition is false;
// WakeOne, which wakes a single parked handle in FIFO registration order;
// and WakeAll, which wakes every handle currently parked.
//
// # Why a separate package
//
// Both Semaphore.Acquire and Condvar.Wait need the same "check condition,
// park if false, and guarantee no wakeup between the check and the park is
// lost" protocol. Getting that protocol right is the hard part of this
// repository; factoring it into one package means the semaphore and the
// condvar only have to get their own atomic state (a permit counter, a
// generation counter) right, not the parking protocol itself.
//
// # Backings
//
// New selects an implementation once per process:
//
//   - On linux, a futex-backed implementation (linux.go).
//   - On windows, a WaitOnAddress-backed implementation (windows.go).
//   - Everywhere else, or if the platform-specific backing's capability
//     probe fails, the generic implementation (generic.go): a lock-free
//     single-waiter fast path plus a mutex-guarded FIFO list for the
//     multi-waiter case.
//
// All three backings satisfy the same Queue interface and the same
// fairness, no-wake-under-lock, and panic-safety guarantees; callers never
// need to know which one they got.
package waitqueue
