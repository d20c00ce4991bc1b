package driver

import (
	"math"
	"testing"

	"memlab/affinity"
	"memlab/bandwidth"
	"memlab/clock"
	"memlab/constants"
	"memlab/control"
)

// recordingPinner remembers which CPUs were requested.
type recordingPinner struct {
	ch chan int
}

func (p recordingPinner) Pin(cpu int) error { p.ch <- cpu; return nil }

// ============================================================================
// SEEDS
// ============================================================================

func TestSeedDistinctPerWorkerAndRep(t *testing.T) {
	seen := map[uint64]bool{}
	for rep := 0; rep < 8; rep++ {
		for k := 0; k < 64; k++ {
			s := Seed(rep, k)
			if seen[s] {
				t.Fatalf("seed collision at rep %d worker %d", rep, k)
			}
			seen[s] = true
		}
	}
}

func TestSeedFormula(t *testing.T) {
	if Seed(0, 0) != constants.GoldenSeed {
		t.Errorf("Seed(0,0) = %#x, want the golden constant", Seed(0, 0))
	}
	rep, k := uint32(2), uint32(3)
	want := constants.GoldenSeed ^ uint64(rep*1315423911+k*2654435761)
	if Seed(2, 3) != want {
		t.Errorf("Seed(2,3) = %#x, want %#x", Seed(2, 3), want)
	}
}

// ============================================================================
// RUN
// ============================================================================

func TestRunPartitionsAcrossWorkers(t *testing.T) {
	buf := make([]byte, 1000)
	res := Run(Config{
		Buf:     buf,
		Threads: 3,
		CPU0:    -1,
		Template: bandwidth.Work{
			Step:  1,
			Mix:   bandwidth.AllWrite,
			Iters: 1,
		},
		Pinner: affinity.Noop{},
		Clock:  clock.Wall(),
	})
	if len(res.PerWorker) != 3 {
		t.Fatalf("got %d worker results", len(res.PerWorker))
	}
	for k, want := range []uint64{333, 333, 334} {
		if got := res.PerWorker[k].Touches; got != want {
			t.Errorf("worker %d touched %d bytes, want %d", k, got, want)
		}
	}
	for i, b := range buf {
		if b != 1 {
			t.Fatalf("byte %d untouched", i)
		}
	}
	if res.ChunkBytes != 333 {
		t.Errorf("chunk = %d, want 333", res.ChunkBytes)
	}
}

func TestRunSumsThroughput(t *testing.T) {
	res := Run(Config{
		Buf:      make([]byte, 1<<16),
		Threads:  4,
		CPU0:     -1,
		Template: bandwidth.Work{Step: 64, Mix: bandwidth.AllRead, Iters: 4},
	})
	var sum float64
	for _, r := range res.PerWorker {
		if r.GBps <= 0 {
			t.Fatalf("worker result %+v has no throughput", r)
		}
		sum += r.GBps
	}
	if math.Abs(sum-res.GBps) > 1e-9*sum {
		t.Errorf("aggregate %v != sum %v", res.GBps, sum)
	}
	if res.LatEstNs <= 0 {
		t.Errorf("lat_est_ns = %v", res.LatEstNs)
	}
}

func TestRunPinsConsecutiveCPUs(t *testing.T) {
	p := recordingPinner{ch: make(chan int, 4)}
	Run(Config{
		Buf:      make([]byte, 4096),
		Threads:  4,
		CPU0:     2,
		Template: bandwidth.Work{Step: 64, Iters: 1},
		Pinner:   p,
	})
	close(p.ch)
	got := map[int]bool{}
	for cpu := range p.ch {
		got[cpu] = true
	}
	for cpu := 2; cpu < 6; cpu++ {
		if !got[cpu] {
			t.Errorf("cpu %d never requested (got %v)", cpu, got)
		}
	}
}

func TestRunReusesGateAcrossRepetitions(t *testing.T) {
	var gate control.Gate
	for rep := 0; rep < 3; rep++ {
		res := Run(Config{
			Buf:        make([]byte, 4096),
			Threads:    2,
			CPU0:       -1,
			Template:   bandwidth.Work{Step: 64, Iters: 1},
			Repetition: rep,
			Gate:       &gate,
		})
		if len(res.PerWorker) != 2 || res.PerWorker[0].Touches != 32 {
			t.Fatalf("rep %d result = %+v", rep, res)
		}
		if gate.Arrivals() != 2 {
			t.Errorf("rep %d: gate saw %d arrivals, want 2", rep, gate.Arrivals())
		}
	}
}

func TestRunZeroThreadsMeansOne(t *testing.T) {
	res := Run(Config{Buf: make([]byte, 640), CPU0: -1, Template: bandwidth.Work{Iters: 1}})
	if len(res.PerWorker) != 1 || res.PerWorker[0].Touches != 10 {
		t.Errorf("result = %+v", res)
	}
}

func TestLatencyEstimate(t *testing.T) {
	if got := LatencyEstimate(1<<20, 10); math.Abs(got-104857.6) > 1e-6 {
		t.Errorf("LatencyEstimate = %v", got)
	}
	if LatencyEstimate(100, 0) != 0 {
		t.Error("zero throughput must give a zero estimate")
	}
}
