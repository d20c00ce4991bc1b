//go:build amd64 && !noasm

// tsc_amd64.go
//
// Time-stamp counter clock for x86-64.
//
//   • Start: CPUID; RDTSC, so earlier instructions cannot drift past the read.
//   • Stop:  RDTSCP; CPUID, which waits for every preceding load/store to retire.
//   • The CPUID fences come from gotsc, which also measures the empty-pair
//     overhead once so timers can subtract it.
//
// CPUs without RDTSCP get the monotonic clock instead; see cycleCounter.

package clock

import (
	"sync"

	"github.com/dterei/gotsc"
	"github.com/klauspost/cpuid/v2"
)

// TSC is the x86 time-stamp counter interpreted at a fixed frequency.
type TSC struct {
	hz float64
}

var (
	tscOverheadOnce sync.Once
	tscOverhead     uint64
)

//go:nosplit
func (*TSC) Start() uint64 { return gotsc.BenchStart() }

//go:nosplit
func (*TSC) Stop() uint64 { return gotsc.BenchEnd() }

func (c *TSC) Hz() float64 { return c.hz }

func (*TSC) Overhead() uint64 {
	tscOverheadOnce.Do(func() { tscOverhead = gotsc.TSCOverhead() })
	return tscOverhead
}

func (*TSC) Name() string { return "tsc" }

// cycleCounter returns a TSC clock when the serialising read is available.
func cycleCounter(hz float64) Clock {
	if !cpuid.CPU.Supports(cpuid.RDTSCP) {
		return nil
	}
	if hz <= 0 {
		return nil
	}
	return &TSC{hz: hz}
}
