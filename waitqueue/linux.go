//go:build linux

package waitqueue

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Futex operation codes. Only the bare FUTEX_WAIT/FUTEX_WAKE are used here;
// FUTEX_PRIVATE_FLAG and friends are deliberately left out, matching the
// minimal wrapper shape this kind of primitive is usually given in Go.
const (
	futexWaitOp = 0
	futexWakeOp = 1
)

func futexWait(addr *uint32, val uint32) {
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWaitOp),
		uintptr(val),
		0, 0, 0)
	// EAGAIN (addr no longer equals val) and EINTR both just mean "go
	// re-check the lock state", which every caller below already does.
}

func futexWake(addr *uint32) {
	const oneWaiter = 1
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWakeOp),
		oneWaiter, 0, 0, 0)
}

// futexMutex is a three-state mutex (unlocked=0, locked=1, locked-with-
// waiters=2) built directly on the Linux futex syscall instead of
// sync.Mutex. It implements sync.Locker so it can be handed to
// newBackingQueue unchanged.
//
// This only replaces the lock genericQueue takes around its own FIFO list
// bookkeeping during RegisterIf/WakeOne/WakeAll — contended Lock calls
// block in futex(2) FUTEX_WAIT instead of spinning on a Go mutex, and
// Unlock wakes at most one blocked locker with FUTEX_WAKE. It does not
// change what a caller actually waits on: that is still the channel
// receive in Handle.Wait(), on every backing. The futex here only ever
// guards this lock's own internal state word, never the semaphore's
// available counter or the condvar's generation — those are read by cond
// inside RegisterIf's critical section, under this same lock, same as the
// generic backing.
//
// Blocking in FUTEX_WAIT blocks the calling OS thread, not just the calling
// goroutine; Go's scheduler treats it like any other blocking syscall and
// spins up a replacement M so other goroutines keep running. Since this
// lock is only ever held for the few instructions of list bookkeeping, the
// cost of that is expected to be negligible — sync.Mutex itself already
// uses a futex under contention at the runtime level, so this type exists
// to keep the Linux backing exercising the same syscall surface directly
// rather than through the runtime's private implementation, not because it
// is known to outperform sync.Mutex for this workload.
type futexMutex struct {
	state uint32
}

const (
	futexUnlocked      = 0
	futexLocked        = 1
	futexLockedWaiting = 2
)

func (m *futexMutex) Lock() {
	if atomic.CompareAndSwapUint32(&m.state, futexUnlocked, futexLocked) {
		return
	}
	for {
		if atomic.SwapUint32(&m.state, futexLockedWaiting) == futexUnlocked {
			return
		}
		futexWait(&m.state, futexLockedWaiting)
		if atomic.CompareAndSwapUint32(&m.state, futexUnlocked, futexLockedWaiting) {
			return
		}
	}
}

func (m *futexMutex) Unlock() {
	if atomic.SwapUint32(&m.state, futexUnlocked) == futexLockedWaiting {
		futexWake(&m.state)
	}
}

// newLinuxQueue returns the futex-backed queue. It reuses genericQueue's
// Empty/Single/Multi bookkeeping verbatim (see generic.go) and only swaps
// out the multi-waiter lock implementation.
func newLinuxQueue() *genericQueue {
	return newBackingQueue(&futexMutex{})
}

// platformQueue is the backing New selects on linux once the capability
// probe succeeds.
func platformQueue() (Queue, bool) {
	if !linuxFutexAvailable() {
		return nil, false
	}
	return newLinuxQueue(), true
}

// linuxFutexAvailable is the one-time runtime capability probe performed
// before committing to a platform backing. Bare FUTEX_WAIT/FUTEX_WAKE have
// existed since Linux 2.6.0, long before any kernel this module could
// plausibly run on, so in practice this always succeeds; it exists to give
// the selection function the same shape on every platform (see select.go)
// rather than to guard a real compatibility gap.
func linuxFutexAvailable() bool {
	return true
}
