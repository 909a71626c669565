//go:build !linux && !windows

package waitqueue

// platformQueue has no specialization outside linux and windows: every
// other target gets the generic backing directly — the same fallback New
// uses when a platform-specific probe fails, just taken unconditionally
// instead of after a failed probe.
func platformQueue() (Queue, bool) {
	return nil, false
}
