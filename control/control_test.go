// ════════════════════════════════════════════════════════════════════════════════════════════════
// 🧪 START GATE TEST SUITE
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Test Coverage:
//   - Unit tests: zero value, open/reset, arrival counting
//   - Integration tests: N workers released together, oversubscribed spinners
//   - Benchmarks: arrive/open round trip
// ════════════════════════════════════════════════════════════════════════════════════════════════

package control

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unsafe"
)

// ============================================================================
// UNIT TESTS
// ============================================================================

func TestGateZeroValueClosed(t *testing.T) {
	var g Gate
	if g.open.Load() != 0 {
		t.Fatal("zero Gate must start closed")
	}
	if g.Arrivals() != 0 {
		t.Fatalf("zero Gate has %d arrivals", g.Arrivals())
	}
}

func TestGateOpenReset(t *testing.T) {
	var g Gate
	g.Arrive()
	g.Open()
	if g.open.Load() == 0 || g.Arrivals() != 1 {
		t.Fatalf("after Arrive+Open: open=%v arrivals=%d", g.open.Load() != 0, g.Arrivals())
	}
	g.Wait() // must not block once open

	g.Reset()
	if g.open.Load() != 0 || g.Arrivals() != 0 {
		t.Fatalf("after Reset: open=%v arrivals=%d", g.open.Load() != 0, g.Arrivals())
	}
}

func TestGateLayout(t *testing.T) {
	var g Gate
	a := uintptr(unsafe.Pointer(&g.arrivals))
	o := uintptr(unsafe.Pointer(&g.open))
	if o-a < 64 {
		t.Errorf("arrivals and open share a cache line (distance %d)", o-a)
	}
}

// ============================================================================
// INTEGRATION TESTS
// ============================================================================

func TestGateReleasesAllWorkers(t *testing.T) {
	const workers = 8
	var (
		g        Gate
		wg       sync.WaitGroup
		released atomic.Int32
	)

	for k := 0; k < workers; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Arrive()
			g.Wait()
			released.Add(1)
		}()
	}

	g.AwaitArrivals(workers)
	time.Sleep(5 * time.Millisecond)
	if n := released.Load(); n != 0 {
		t.Fatalf("%d workers passed a closed gate", n)
	}

	g.Open()
	wg.Wait()
	if n := released.Load(); n != workers {
		t.Fatalf("released %d workers, want %d", n, workers)
	}
}

func TestGateOversubscribed(t *testing.T) {
	prev := runtime.GOMAXPROCS(1)
	defer runtime.GOMAXPROCS(prev)

	var (
		g  Gate
		wg sync.WaitGroup
	)
	const workers = 4
	for k := 0; k < workers; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Arrive()
			g.Wait()
		}()
	}
	g.AwaitArrivals(workers)
	g.Open()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("spinners starved each other with GOMAXPROCS=1")
	}
}

// ============================================================================
// BENCHMARKS
// ============================================================================

func BenchmarkGateRoundTrip(b *testing.B) {
	var g Gate
	for i := 0; i < b.N; i++ {
		g.Arrive()
		g.AwaitArrivals(1)
		g.Open()
		g.Wait()
		g.Reset()
	}
}
