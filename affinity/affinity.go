// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: affinity.go — Thread-to-CPU pinning as an injected capability
//
// Purpose:
//   - Lets the latency runner and the parallel driver pin the calling OS
//     thread without knowing which platform they run on.
//   - OS binds to sched_setaffinity(2) on Linux; elsewhere it reports
//     ErrUnsupported and the run continues unpinned.
//
// Notes:
//   - Pinning only sticks while the goroutine holds runtime.LockOSThread.
//     PinCurrent does both.
//   - Failures are warnings, never fatal.
// ─────────────────────────────────────────────────────────────────────────────

package affinity

import (
	"errors"
	"runtime"

	"memlab/debug"
)

// ErrUnsupported is returned by OS on platforms without thread affinity.
var ErrUnsupported = errors.New("affinity: thread pinning not supported on this platform")

// ErrInvalidCPU is returned for indices the platform mask cannot express.
var ErrInvalidCPU = errors.New("affinity: cpu index out of range")

// Pinner binds the current OS thread to one logical CPU.
type Pinner interface {
	Pin(cpu int) error
}

// OS pins through the operating system.
type OS struct{}

// Pin binds the calling thread to cpu.
func (OS) Pin(cpu int) error {
	if cpu < 0 {
		return ErrInvalidCPU
	}
	return setAffinity(cpu)
}

// Noop accepts every request and does nothing.
type Noop struct{}

func (Noop) Pin(int) error { return nil }

// PinCurrent locks the calling goroutine to its OS thread and, when cpu ≥ 0,
// pins that thread. It reports whether the pin took effect. The thread stays
// locked either way so the caller's timed region never migrates goroutines.
func PinCurrent(p Pinner, cpu int) bool {
	runtime.LockOSThread()
	if cpu < 0 || p == nil {
		return false
	}
	if err := p.Pin(cpu); err != nil {
		debug.DropWarning("cpu pin failed, running unpinned", debug.Fields{
			"cpu": cpu,
			"err": err,
		})
		return false
	}
	return true
}

// Release widens the calling thread back to the process's startup mask and
// undoes the thread lock taken by PinCurrent, so a pinned thread never
// returns to the scheduler's pool still bound to one CPU.
func Release() {
	if err := restoreAffinity(); err != nil && !errors.Is(err, ErrUnsupported) {
		debug.DropDebug("affinity restore failed", debug.Fields{"err": err})
	}
	runtime.UnlockOSThread()
}

// Allowed lists the CPUs the calling thread may currently run on.
func Allowed() ([]int, error) {
	return current()
}
