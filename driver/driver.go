// ════════════════════════════════════════════════════════════════════════════════════════════════
// Parallel Bandwidth Driver
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: one repetition of a multi-worker bandwidth run
//
// Description:
//   Splits one region into disjoint chunks, starts one locked goroutine per
//   chunk, releases them together through a start gate and joins them. The
//   repetition's throughput is the sum of the workers' throughputs.
//
// Execution model:
//   - Worker k owns span k of region.Partition; the last span takes the tail.
//   - Worker k pins to CPU0+k when CPU0 ≥ 0. A failed pin is logged and the
//     worker runs unpinned.
//   - Each worker times only its own touch loop.
//   - A worker widens its thread back to the startup CPU mask before it
//     unlocks, so no pool thread stays bound to a worker's CPU.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package driver

import (
	"slices"
	"sync"

	"memlab/affinity"
	"memlab/bandwidth"
	"memlab/clock"
	"memlab/constants"
	"memlab/control"
	"memlab/debug"
	"memlab/region"
)

// Config describes one repetition.
type Config struct {
	Buf        []byte
	Threads    int
	CPU0       int
	Template   bandwidth.Work // Buf and Seed are filled per worker
	Repetition int

	Pinner affinity.Pinner
	Clock  clock.Clock
	Gate   *control.Gate // reused across repetitions; nil allocates one
}

// Result aggregates one repetition.
type Result struct {
	PerWorker  []bandwidth.Result
	ChunkBytes int
	GBps       float64 // sum over workers
	LatEstNs   float64 // chunk bytes over aggregate throughput
}

// Seed derives worker k's random stream for repetition rep. The mixing is
// done in 32 bits and folded into the golden-ratio constant.
func Seed(rep, worker int) uint64 {
	h := uint32(rep)*constants.RepSeedMul + uint32(worker)*constants.WorkerSeedMul
	return constants.GoldenSeed ^ uint64(h)
}

// LatencyEstimate is the Little's-law proxy chunk / throughput in ns. It is
// not a measured latency.
func LatencyEstimate(chunkBytes int, gbps float64) float64 {
	if gbps <= 0 {
		return 0
	}
	return float64(chunkBytes) / (gbps * 1e9) * 1e9
}

// Run executes one repetition and blocks until every worker has finished.
func Run(cfg Config) Result {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Wall()
	}
	spans := region.Partition(len(cfg.Buf), cfg.Threads)

	gate := cfg.Gate
	if gate == nil {
		gate = new(control.Gate)
	}
	gate.Reset()

	var (
		wg  sync.WaitGroup
		out = make([]bandwidth.Result, cfg.Threads)
	)
	for k, sp := range spans {
		w := cfg.Template
		w.Buf = sp.Slice(cfg.Buf)
		w.Seed = Seed(cfg.Repetition, k)

		cpu := constants.NoCPU
		if cfg.CPU0 >= 0 {
			cpu = cfg.CPU0 + k
		}

		wg.Add(1)
		go func(k, cpu int, w bandwidth.Work) {
			defer wg.Done()
			affinity.PinCurrent(cfg.Pinner, cpu)
			defer affinity.Release()

			gate.Arrive()
			gate.Wait()
			out[k] = bandwidth.Run(w, cfg.Clock)
		}(k, cpu, w)
	}

	gate.AwaitArrivals(cfg.Threads)
	gate.Open()
	wg.Wait()

	res := Result{PerWorker: out, ChunkBytes: len(cfg.Buf) / cfg.Threads}
	for _, r := range out {
		res.GBps += r.GBps
	}
	res.LatEstNs = LatencyEstimate(res.ChunkBytes, res.GBps)
	return res
}

// Preflight logs placements that will distort a run: more workers than
// logical CPUs, and pin targets outside the process's allowed set.
func Preflight(threads, cpu0, logicalCPUs int) {
	if logicalCPUs > 0 && threads > logicalCPUs {
		debug.DropWarning("more workers than logical cpus", debug.Fields{
			"threads": threads,
			"cpus":    logicalCPUs,
		})
	}
	if cpu0 < 0 {
		return
	}
	allowed, err := affinity.Allowed()
	if err != nil {
		debug.DropDebug("affinity mask unavailable", debug.Fields{"err": err})
		return
	}
	for k := 0; k < threads; k++ {
		if !slices.Contains(allowed, cpu0+k) {
			debug.DropWarning("pin target outside allowed cpus", debug.Fields{
				"worker": k,
				"cpu":    cpu0 + k,
			})
		}
	}
}
