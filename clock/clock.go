// Package clock measures elapsed time across a code region.
//
// A Clock hands out raw ticks from Start and Stop; Stop is ordered after all
// preceding memory operations where the hardware allows it. Ticks become
// seconds through Hz. On amd64 with RDTSCP the ticks are TSC cycles; every
// other platform falls back to the monotonic wall clock with 1 tick = 1 ns.
package clock

import (
	"strconv"
	"strings"
	"time"

	"memlab/constants"
)

// Clock is the hardware-clock capability shared by every benchmark.
type Clock interface {
	// Start captures the opening tick.
	Start() uint64
	// Stop captures the closing tick after all prior loads and stores retire.
	Stop() uint64
	// Hz converts ticks to seconds.
	Hz() float64
	// Overhead is the tick cost of an empty Start/Stop pair.
	Overhead() uint64
	// Name labels the clock in diagnostics.
	Name() string
}

// ═══════════════════════════════════════════════════════════════════════════
// MONOTONIC FALLBACK
// ═══════════════════════════════════════════════════════════════════════════

var epoch = time.Now()

// Monotonic reads the runtime's monotonic clock. Ticks are nanoseconds.
type Monotonic struct{}

func (Monotonic) Start() uint64    { return uint64(time.Since(epoch)) }
func (Monotonic) Stop() uint64     { return uint64(time.Since(epoch)) }
func (Monotonic) Hz() float64      { return 1e9 }
func (Monotonic) Overhead() uint64 { return 0 }
func (Monotonic) Name() string     { return "monotonic" }

// ═══════════════════════════════════════════════════════════════════════════
// HARDWARE SELECTION
// ═══════════════════════════════════════════════════════════════════════════

// Hardware returns the cycle counter clock running at hz when the platform
// has one, otherwise Monotonic. hz is ignored by the fallback.
func Hardware(hz float64) Clock {
	if c := cycleCounter(hz); c != nil {
		return c
	}
	return Monotonic{}
}

// Wall returns the monotonic wall clock. Bandwidth and kernel runs time with
// it so their GB/s never depends on an assumed frequency.
func Wall() Clock {
	return Monotonic{}
}

// ═══════════════════════════════════════════════════════════════════════════
// FREQUENCY RESOLUTION
// ═══════════════════════════════════════════════════════════════════════════

// Source records where a frequency came from.
type Source uint8

const (
	SourceFallback Source = iota
	SourceEnv
	SourceConfig
	SourceCalibrated
)

func (s Source) String() string {
	switch s {
	case SourceEnv:
		return "env"
	case SourceConfig:
		return "config"
	case SourceCalibrated:
		return "calibrated"
	}
	return "fallback"
}

// ResolveHz picks the tick frequency: a valid env override first, then a
// positive configured value, then constants.FallbackClockHz.
func ResolveHz(env string, configured float64) (float64, Source) {
	if hz, ok := parseHz(env); ok {
		return hz, SourceEnv
	}
	if configured > 0 {
		return configured, SourceConfig
	}
	return constants.FallbackClockHz, SourceFallback
}

func parseHz(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	hz, err := strconv.ParseFloat(s, 64)
	if err != nil || hz <= 0 {
		return 0, false
	}
	return hz, true
}

// ═══════════════════════════════════════════════════════════════════════════
// TIMER
// ═══════════════════════════════════════════════════════════════════════════

// Timer brackets one measured region.
type Timer struct {
	c      Clock
	t0, t1 uint64
}

// NewTimer binds a timer to c.
func NewTimer(c Clock) *Timer {
	return &Timer{c: c}
}

// Start records the opening tick.
//
//go:nosplit
func (t *Timer) Start() {
	t.t0 = t.c.Start()
}

// Stop records the closing tick and returns elapsed seconds.
//
//go:nosplit
func (t *Timer) Stop() float64 {
	t.t1 = t.c.Stop()
	return t.Seconds()
}

// Ticks is the elapsed tick count net of the clock's own overhead.
// A non-positive difference reports one tick so rates stay finite.
func (t *Timer) Ticks() uint64 {
	if t.t1 <= t.t0 {
		return 1
	}
	d := t.t1 - t.t0
	if ov := t.c.Overhead(); d > ov {
		d -= ov
	}
	if d == 0 {
		return 1
	}
	return d
}

// Seconds converts Ticks through the clock frequency.
func (t *Timer) Seconds() float64 {
	return float64(t.Ticks()) / t.c.Hz()
}
