// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Benchmark Tunables & Accounting Conventions
//
// Purpose:
//   - Defines the geometry constants every benchmark agrees on (line, page).
//   - Holds the memory-interface traffic heuristics used for GB/s accounting.
//   - Carries the default flag values of every subcommand.
//
// Notes:
//   - Traffic costs are estimates, not measured hardware events. They live
//     here as defaults and can be overridden per run (see bandwidth.Costs).
//   - The fallback clock frequency only matters for absolute latency values.
//
// ⚠️ No runtime logic here: all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

// ───────────────────────────── Memory Geometry ─────────────────────────────

const (
	// CacheLineBytes is the touch granularity assumed by the bandwidth worker.
	// A step of 0 is coerced to this value.
	CacheLineBytes = 64

	// PageBytes is the base page size used for prefaulting and page-span math.
	PageBytes = 4096

	// SlotBytes is the size of one ring slot (a uint64 next-index).
	SlotBytes = 8

	// MinRingSlots keeps tiny working sets from degenerating into a 1-slot self loop.
	MinRingSlots = 4
)

// ───────────────────────── Traffic Accounting (GB/s) ───────────────────────

const (
	// ReadBytesPerTouch: one cache line fetched from memory.
	ReadBytesPerTouch = 64.0

	// WriteBytesPerTouch: read-for-ownership (64B) plus the eventual writeback (~64B).
	WriteBytesPerTouch = 128.0
)

// ─────────────────────────────── Clock ─────────────────────────────────────

const (
	// ClockHzEnv names the environment override for the cycle counter frequency.
	ClockHzEnv = "CPU_HZ"

	// FallbackClockHz is used when nothing better is known. Relative
	// comparisons stay valid; absolute nanoseconds carry systematic error.
	FallbackClockHz = 3.5e9

	// ConfigPathEnv names the optional TOML defaults file.
	ConfigPathEnv = "MEMLAB_CONFIG"
)

// ─────────────────────────── Seed Derivation ───────────────────────────────

const (
	// GoldenSeed (2^64 / φ) is the xorshift fallback seed and the base every
	// per-(repetition, worker) seed is folded into.
	GoldenSeed uint64 = 0x9e3779b97f4a7c15

	// RepSeedMul and WorkerSeedMul are odd multipliers, so worker seeds
	// within one repetition never collide.
	RepSeedMul    uint32 = 1315423911
	WorkerSeedMul uint32 = 2654435761

	// DefaultRingSeed seeds the latency ring shuffle when --seed is absent.
	DefaultRingSeed uint64 = 42
)

// ─────────────────────────── Subcommand Defaults ───────────────────────────

const (
	// latency: 8 KiB → 1 GiB sweep
	DefaultLatencyMinKB  = 8
	DefaultLatencyMaxMB  = 1024
	DefaultLatencyStride = 64
	DefaultLatencyIters  = 10_000_000

	// bw: one 1 GiB region, single thread, one pass
	DefaultBandwidthBytes   = 1 << 30
	DefaultBandwidthThreads = 1
	DefaultBandwidthStride  = 64
	DefaultBandwidthIters   = 1

	// kernel: SAXPY over 1 GiB per array
	DefaultKernelWSBytes  = 1 << 30
	DefaultKernelStride   = 1
	DefaultKernelPageSpan = 1
	DefaultKernelIters    = 5

	// shared
	DefaultReps = 3
	NoCPU       = -1
)
