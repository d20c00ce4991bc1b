// control.go — Start gate for concurrently timed workers
// ============================================================================
// WORKER RELEASE COORDINATION
// ============================================================================
//
// Aggregate bandwidth is a plain sum of per-worker rates, which is only
// honest when every worker's timed window overlaps the others. Goroutine
// start-up, thread locking and CPU pinning take wildly different times per
// worker, so workers park on a Gate after setup and the driver opens it once
// all of them have arrived.
//
// Protocol:
//     Worker k                 Driver
//     --------                 ------------------------------
//     pin, build work
//     Arrive()   ───────────▶  AwaitArrivals(T)
//     Wait()     ◀───────────  Open()
//     timed region
//
// Fields are padded onto separate cache lines: arrivals are written by every
// worker, open by the driver only.

package control

import (
	"runtime"
	"sync/atomic"
)

// spinBudget bounds PAUSE iterations before a spinner yields its P, so an
// oversubscribed run (more workers than GOMAXPROCS) still makes progress.
const spinBudget = 1 << 10

// Gate is a start barrier, reusable across repetitions through Reset. The
// zero value is closed and ready.
type Gate struct {
	_        [64]byte
	arrivals atomic.Int32
	_        [60]byte
	open     atomic.Uint32
	_        [60]byte
}

// Arrive announces that the caller finished setup.
//
//go:nosplit
func (g *Gate) Arrive() {
	g.arrivals.Add(1)
}

// Arrivals is the number of workers parked so far.
func (g *Gate) Arrivals() int {
	return int(g.arrivals.Load())
}

// Wait spins until the gate opens.
func (g *Gate) Wait() {
	spin(func() bool { return g.open.Load() != 0 })
}

// AwaitArrivals spins until at least n workers have arrived.
func (g *Gate) AwaitArrivals(n int) {
	spin(func() bool { return int(g.arrivals.Load()) >= n })
}

// Open releases every waiter.
//
//go:nosplit
func (g *Gate) Open() {
	g.open.Store(1)
}

// Reset closes the gate and clears arrivals for reuse across repetitions.
// Only call it when no worker is parked.
func (g *Gate) Reset() {
	g.open.Store(0)
	g.arrivals.Store(0)
}

func spin(done func() bool) {
	for miss := 0; !done(); miss++ {
		if miss >= spinBudget {
			miss = 0
			runtime.Gosched()
			continue
		}
		cpuRelax()
	}
}
