//go:build linux && !tinygo

// setaffinity_linux.go
//
// Linux binding for `sched_setaffinity(2)` that pins **this** OS thread to a
// single logical CPU. pid 0 addresses the calling thread, not the process.
//
//   • The mask is a full unix.CPUSet, so hosts with more than 64 CPUs work.
//   • Errors (EPERM in restricted containers, EINVAL for offline CPUs) are
//     returned; the caller decides to warn and continue.

package affinity

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// cpuSetBits is the number of CPUs a unix.CPUSet can express.
const cpuSetBits = int(unsafe.Sizeof(unix.CPUSet{})) * 8

// initialMask is the process mask captured before any thread was pinned.
var (
	initialMask unix.CPUSet
	haveInitial = unix.SchedGetaffinity(0, &initialMask) == nil
)

// setAffinity pins the *current thread* to `cpu` (0-based).
func setAffinity(cpu int) error {
	if cpu >= cpuSetBits {
		return ErrInvalidCPU
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}

// current returns the CPUs the calling thread may run on.
func current() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}
	cpus := make([]int, 0, set.Count())
	for c := 0; c < cpuSetBits && len(cpus) < cap(cpus); c++ {
		if set.IsSet(c) {
			cpus = append(cpus, c)
		}
	}
	return cpus, nil
}

// restoreAffinity widens the calling thread back to the startup mask.
func restoreAffinity() error {
	if !haveInitial {
		return ErrUnsupported
	}
	return unix.SchedSetaffinity(0, &initialMask)
}
