// ============================================================================
// TRAVERSAL RING CORRECTNESS SUITE
// ============================================================================
//
// Test categories:
//   - Ordering shapes: identity, stride walk, seeded shuffle
//   - Single-cycle invariant for Sequential and Random across many N
//   - Degenerate FixedStride (gcd ≠ 1) reproduced, not repaired
//   - Determinism of Random for a fixed seed
//   - Scenario: N=8 sequential ring, two full laps

package ring

import (
	"slices"
	"testing"

	"memlab/utils"
)

// ============================================================================
// TEST UTILITIES AND HELPERS
// ============================================================================

// assertFullCycle follows next N times from start and checks every index
// appears once and the N+1-th hop lands on start again.
func assertFullCycle(t *testing.T, r *Ring, start uint64) {
	t.Helper()
	n := r.Len()
	seen := make([]bool, n)
	p := start
	for i := 0; i < n; i++ {
		if seen[p] {
			t.Fatalf("N=%d: index %d visited twice before completing the lap (step %d)", n, p, i)
		}
		seen[p] = true
		p = r.Next[p]
	}
	if p != start {
		t.Fatalf("N=%d: after N hops landed on %d, want start %d", n, p, start)
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("N=%d: index %d never visited", n, i)
		}
	}
}

// isPermutation checks order holds each of [0, len) exactly once.
func isPermutation(order []uint64) bool {
	seen := make([]bool, len(order))
	for _, v := range order {
		if v >= uint64(len(order)) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// ============================================================================
// ORDERING SHAPES
// ============================================================================

func TestOrderSequential(t *testing.T) {
	got := Order(5, Pattern{Kind: Sequential})
	want := []uint64{0, 1, 2, 3, 4}
	if !slices.Equal(got, want) {
		t.Errorf("Order(seq) = %v, want %v", got, want)
	}
}

func TestOrderFixedStride(t *testing.T) {
	got := Order(8, Pattern{Kind: FixedStride, StrideElems: 3})
	want := []uint64{0, 3, 6, 1, 4, 7, 2, 5}
	if !slices.Equal(got, want) {
		t.Errorf("Order(stride=3, N=8) = %v, want %v", got, want)
	}
}

func TestOrderFixedStrideZeroActsAsOne(t *testing.T) {
	got := Order(4, Pattern{Kind: FixedStride})
	if !slices.Equal(got, []uint64{0, 1, 2, 3}) {
		t.Errorf("Order(stride=0) = %v, want identity", got)
	}
}

func TestOrderRandomIsPermutation(t *testing.T) {
	for _, n := range []int{1, 2, 3, 17, 1000} {
		if order := Order(n, Pattern{Kind: Random, Seed: 42}); !isPermutation(order) {
			t.Errorf("Order(random, N=%d) is not a permutation: %v", n, order)
		}
	}
}

func TestOrderRandomDeterministic(t *testing.T) {
	for _, seed := range []uint64{0, 1, 42, 0x9e3779b97f4a7c15} {
		a := Order(4096, Pattern{Kind: Random, Seed: seed})
		b := Order(4096, Pattern{Kind: Random, Seed: seed})
		if !slices.Equal(a, b) {
			t.Fatalf("seed %d produced two different permutations", seed)
		}
	}
}

func TestOrderRandomSeedsDiffer(t *testing.T) {
	a := Order(4096, Pattern{Kind: Random, Seed: 1})
	b := Order(4096, Pattern{Kind: Random, Seed: 2})
	if slices.Equal(a, b) {
		t.Error("different seeds produced the same permutation")
	}
}

func TestOrderEmpty(t *testing.T) {
	if got := Order(0, Pattern{Kind: Random}); len(got) != 0 {
		t.Errorf("Order(0) = %v", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Sequential, FixedStride, Random} {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = (%v, %v)", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("zigzag"); ok {
		t.Error("ParseKind accepted an unknown pattern")
	}
}

// ============================================================================
// SINGLE-CYCLE INVARIANT
// ============================================================================

func TestSingleCycleSequentialAndRandom(t *testing.T) {
	for n := 1; n <= 300; n++ {
		for _, p := range []Pattern{
			{Kind: Sequential},
			{Kind: Random, Seed: uint64(n) * 7919},
		} {
			r := New(n, p)
			assertFullCycle(t, r, 0)
			assertFullCycle(t, r, uint64(n-1))
			if !r.SingleCycle() {
				t.Fatalf("N=%d %s: SingleCycle() = false", n, p.Kind)
			}
		}
	}
}

func TestSingleCycleCoprimeStride(t *testing.T) {
	for _, tc := range []struct{ n, s uint64 }{{8, 3}, {8, 1}, {17, 4}, {1000, 7}, {512, 511}} {
		if !Coprime(tc.s, tc.n) {
			t.Fatalf("Coprime(%d, %d) = false", tc.s, tc.n)
		}
		r := New(int(tc.n), Pattern{Kind: FixedStride, StrideElems: tc.s})
		assertFullCycle(t, r, 0)
	}
}

func TestDegenerateStrideReproduced(t *testing.T) {
	tests := []struct {
		n, s       uint64
		wantCycle  int
		wantUnique int
	}{
		{8, 2, 4, 4},
		{8, 4, 2, 2},
		{12, 8, 3, 3},
		{1024, 8, 128, 128},
	}
	for _, tt := range tests {
		if Coprime(tt.s, tt.n) {
			t.Fatalf("Coprime(%d, %d) = true, want false", tt.s, tt.n)
		}
		if g := utils.Gcd(tt.s, tt.n); int(tt.n/g) != tt.wantCycle {
			t.Fatalf("bad fixture: N/gcd = %d, want %d", tt.n/g, tt.wantCycle)
		}
		r := New(int(tt.n), Pattern{Kind: FixedStride, StrideElems: tt.s})
		if r.SingleCycle() {
			t.Errorf("N=%d s=%d: ring claims a single full cycle", tt.n, tt.s)
		}
		if got := r.CycleLen(0); got != tt.wantCycle {
			t.Errorf("N=%d s=%d: CycleLen(0) = %d, want %d", tt.n, tt.s, got, tt.wantCycle)
		}
		if got := r.Distinct(0, int(tt.n)); got != tt.wantUnique || got >= int(tt.n) {
			t.Errorf("N=%d s=%d: %d distinct slots in N hops, want %d (< N)", tt.n, tt.s, got, tt.wantUnique)
		}
	}
}

func TestCycleLenOnTail(t *testing.T) {
	// 1 → 0 → 0: slot 1 is a tail into the self-loop at 0.
	r := &Ring{Next: []uint64{0, 0}}
	if got := r.CycleLen(1); got != 0 {
		t.Errorf("CycleLen on a tail = %d, want 0", got)
	}
	if got := r.CycleLen(0); got != 1 {
		t.Errorf("CycleLen on a self-loop = %d, want 1", got)
	}
}

// ============================================================================
// SCENARIOS
// ============================================================================

func TestSequentialRingOfEight(t *testing.T) {
	r := New(8, Pattern{Kind: Sequential})
	if want := []uint64{1, 2, 3, 4, 5, 6, 7, 0}; !slices.Equal(r.Next, want) {
		t.Fatalf("next = %v, want %v", r.Next, want)
	}

	visited := r.Visit(0, 16)
	want := []uint64{0, 1, 2, 3, 4, 5, 6, 7, 0, 1, 2, 3, 4, 5, 6, 7, 0}
	if !slices.Equal(visited, want) {
		t.Errorf("chase from 0 for 16 steps = %v, want %v", visited, want)
	}
}

func TestFillMatchesBuild(t *testing.T) {
	p := Pattern{Kind: Random, Seed: 99}
	want := New(257, p)

	next := make([]uint64, 257)
	got := Fill(next, p, nil)
	if !slices.Equal(got.Next, want.Next) {
		t.Error("Fill and New disagree for the same pattern")
	}
	if &got.Next[0] != &next[0] {
		t.Error("Fill must write into the caller's storage")
	}

	scratch := make([]uint64, 512)
	again := Fill(make([]uint64, 257), p, scratch)
	if !slices.Equal(again.Next, want.Next) {
		t.Error("Fill with oversized scratch disagrees")
	}
}

// ============================================================================
// BENCHMARKS
// ============================================================================

func BenchmarkBuildRandom(b *testing.B) {
	next := make([]uint64, 1<<16)
	scratch := make([]uint64, 1<<16)
	for i := 0; i < b.N; i++ {
		Fill(next, Pattern{Kind: Random, Seed: uint64(i)}, scratch)
	}
}
