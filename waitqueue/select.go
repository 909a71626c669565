package waitqueue

import "sync"

// New selects a Queue backing for the current process. It is safe, and
// intended, to call once and share the result; there is no per-primitive
// configuration.
//
// Selection happens once per process via selectOnce, regardless of how
// many times New is called: the first call probes platform capability
// (platformQueue, defined per-OS in linux.go/windows.go/fallback.go) and
// every call — including the first — returns a fresh Queue of whichever
// implementation that probe settled on. Each call to New still returns an
// independent Queue instance; only the *choice* of implementation is
// memoized, never a shared Queue value.
func New() Queue {
	if backing := selectOnce(); backing == platformBacking {
		if q, ok := platformQueue(); ok {
			return q
		}
		// The probe passed once (selectOnce) but this particular
		// construction failed; that should not happen in practice, but
		// falling back here rather than panicking keeps New infallible.
	}
	return newGenericQueue()
}

type backingKind int

const (
	genericBacking backingKind = iota
	platformBacking
)

var selectOnce = sync.OnceValue(func() backingKind {
	if _, ok := platformQueue(); ok {
		return platformBacking
	}
	return genericBacking
})
