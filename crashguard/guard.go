// Package crashguard turns fatal memory faults raised by a test body into a
// countable event instead of a process abort.
//
// The Go runtime delivers faults on nil dereferences as recoverable
// run-time panics, and runtime/debug.SetPanicOnFault extends that to faults
// at unexpected (non-nil) addresses. Trapping a fault this way is inherently
// best-effort: fault classes the runtime does not convert to panics still
// kill the process, and the unwound goroutine's state is not formally
// defined afterwards. That limitation is accepted, not worked around.
package crashguard

import (
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

// Guard is the engine's view of the process-wide fault counter. It is an
// interface rather than a bare shared variable so the engine's dependency on
// it stays explicit and mockable.
type Guard interface {
	// Snapshot returns the current value of the fault counter.
	Snapshot() uint64
	// Installed reports whether fault trapping is available.
	Installed() bool
	// Trap runs fn on the calling goroutine with memory-fault trapping
	// enabled. A memory fault unwinds fn, increments the counter and is
	// swallowed; any other panic value is returned to the caller.
	Trap(fn func()) (recovered any)
}

// Process-wide state. The counter is the only value shared between the
// controlling goroutine and a test body's goroutine; it is mutated through
// atomic operations only.
var (
	faults    atomic.Uint64
	installed atomic.Bool
)

type faultGuard struct{}

// Install enables the process-wide crash guard and returns it. Installing
// repeatedly is idempotent.
func Install() Guard {
	installed.Store(true)
	return faultGuard{}
}

func (faultGuard) Snapshot() uint64 {
	return faults.Load()
}

func (faultGuard) Installed() bool {
	return installed.Load()
}

func (faultGuard) Trap(fn func()) (recovered any) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if r := recover(); r != nil {
			if isMemoryFault(r) {
				faults.Add(1)
				return
			}
			recovered = r
		}
	}()
	fn()
	return nil
}

// isMemoryFault reports whether a recovered panic value is the runtime's
// rendering of a fatal memory access.
func isMemoryFault(r any) bool {
	err, ok := r.(runtime.Error)
	if !ok {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "invalid memory address") ||
		strings.Contains(msg, "unexpected fault address") ||
		strings.Contains(msg, "segmentation violation")
}
