package latency

import (
	"math"
	"slices"
	"testing"

	"memlab/affinity"
	"memlab/clock"
	"memlab/ring"
)

// countingClock advances a fixed number of ticks per read.
type countingClock struct {
	now, step uint64
}

func (c *countingClock) Start() uint64    { c.now += c.step; return c.now }
func (c *countingClock) Stop() uint64     { c.now += c.step; return c.now }
func (c *countingClock) Hz() float64      { return 1e9 }
func (c *countingClock) Overhead() uint64 { return 0 }
func (c *countingClock) Name() string     { return "counting" }

// ============================================================================
// CHASE
// ============================================================================

func TestChaseLandsWhereTheRingSays(t *testing.T) {
	r := ring.New(8, ring.Pattern{Kind: ring.Sequential})
	for _, iters := range []uint64{1, 7, 8, 16, 19} {
		Chase(r.Next, iters, clock.Wall())
		if want := iters % 8; sink != want {
			t.Errorf("after %d hops sink = %d, want %d", iters, sink, want)
		}
	}
}

func TestChaseNsPerHop(t *testing.T) {
	r := ring.New(16, ring.Pattern{Kind: ring.Random, Seed: 3})
	c := &countingClock{step: 500_000}
	ns, sec := Chase(r.Next, 1000, c)
	if math.Abs(sec-500e-6) > 1e-15 {
		t.Errorf("seconds = %v, want 5e-4", sec)
	}
	if math.Abs(ns-500) > 1e-6 {
		t.Errorf("ns/hop = %v, want 500", ns)
	}
}

func TestChaseZeroIters(t *testing.T) {
	ns, sec := Chase([]uint64{0}, 0, clock.Wall())
	if ns != 0 || sec != 0 {
		t.Errorf("zero iterations = (%v, %v), want zeros", ns, sec)
	}
}

// ============================================================================
// SWEEP GEOMETRY
// ============================================================================

func TestSizes(t *testing.T) {
	got := Sizes(8, 1)
	want := []uint64{8 << 10, 16 << 10, 32 << 10, 64 << 10, 128 << 10, 256 << 10, 512 << 10, 1 << 20}
	if !slices.Equal(got, want) {
		t.Errorf("Sizes(8, 1) = %v, want %v", got, want)
	}
	if got := Sizes(2048, 1); len(got) != 0 {
		t.Errorf("min above max should be empty, got %v", got)
	}
	if got := Sizes(0, 0); len(got) != 0 {
		t.Errorf("Sizes(0, 0) = %v, want empty", got)
	}
	if got := Sizes(0, 1); got[0] != 1<<10 {
		t.Errorf("Sizes(0, 1) should start at 1 KiB, got %v", got[0])
	}
}

func TestSlotsAndStride(t *testing.T) {
	if Slots(8) != 4 {
		t.Errorf("Slots(8) = %d, want the 4-slot minimum", Slots(8))
	}
	if Slots(8<<10) != 1024 {
		t.Errorf("Slots(8 KiB) = %d, want 1024", Slots(8<<10))
	}
	if StrideElems(0) != 1 || StrideElems(4) != 1 || StrideElems(64) != 8 {
		t.Error("StrideElems must convert bytes to ≥1 elements")
	}
}

func TestPeakBytes(t *testing.T) {
	if got := PeakBytes(Config{MinKB: 8, MaxMB: 1}); got != 2<<20 {
		t.Errorf("PeakBytes = %d, want 2 MiB", got)
	}
	if got := PeakBytes(Config{MinKB: 4096, MaxMB: 1}); got != 0 {
		t.Errorf("PeakBytes for an empty sweep = %d", got)
	}
}

// ============================================================================
// SWEEP
// ============================================================================

func TestSweepEmitsEveryRepetition(t *testing.T) {
	cfg := Config{
		MinKB:   4,
		MaxMB:   1,
		StrideB: 64,
		Iters:   10_000,
		CPU:     -1,
		Reps:    2,
		Pattern: ring.Random,
		Seed:    42,
		Clock:   clock.Wall(),
		Pinner:  affinity.Noop{},
	}
	var got []Measurement
	if err := Sweep(cfg, func(m Measurement) { got = append(got, m) }); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	sizes := Sizes(cfg.MinKB, cfg.MaxMB)
	if len(got) != len(sizes)*cfg.Reps {
		t.Fatalf("got %d measurements, want %d", len(got), len(sizes)*cfg.Reps)
	}
	for i, m := range got {
		if m.Bytes != sizes[i/cfg.Reps] || m.Repetition != i%cfg.Reps {
			t.Errorf("measurement %d = bytes %d rep %d", i, m.Bytes, m.Repetition)
		}
		if m.NsPerHop <= 0 || m.Iters != cfg.Iters || m.Pattern != ring.Random {
			t.Errorf("measurement %d malformed: %+v", i, m)
		}
	}
}

func TestSweepDegenerateStrideStillMeasures(t *testing.T) {
	cfg := Config{
		MinKB: 8, MaxMB: 1, StrideB: 64, Iters: 1000, CPU: -1, Reps: 1,
		Pattern: ring.FixedStride, Pinner: affinity.Noop{},
	}
	n := 0
	if err := Sweep(cfg, func(Measurement) { n++ }); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n == 0 {
		t.Error("degenerate stride sweep produced no rows")
	}
}

// ============================================================================
// BENCHMARKS
// ============================================================================

func BenchmarkChaseL1(b *testing.B) {
	r := ring.New(512, ring.Pattern{Kind: ring.Random, Seed: 1})
	b.ResetTimer()
	Chase(r.Next, uint64(b.N), clock.Wall())
}
