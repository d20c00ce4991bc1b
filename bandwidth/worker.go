// ════════════════════════════════════════════════════════════════════════════════════════════════
// Bandwidth Worker
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: single-thread touch loop over one memory region
//
// Description:
//   One pass touches ⌈len/step⌉ offsets; a run makes Iters passes. Each touch
//   is a one-byte load or store, which costs the memory system a whole line,
//   and the accounted traffic per touch follows the mix (see Costs).
//
// Access patterns:
//   - Sequential: offsets 0, step, 2·step, … in order.
//   - Random: each offset drawn independently and uniformly from the same
//     grid with a private xorshift64 stream. Offsets repeat; this is not a
//     permutation.
//
// Notes:
//   - One loop per (pattern, mix) pair keeps classification out of the pure
//     read and pure write loops.
//   - Stores write byte(pass+1), so the first pass always changes a zeroed
//     region.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package bandwidth

import (
	"memlab/clock"
	"memlab/constants"
	"memlab/utils"
)

// sink receives the sum of every loaded byte so loads are never dead.
var sink uint64

// Pattern is the offset order of a worker.
type Pattern uint8

const (
	Sequential Pattern = iota
	Random
)

// String is the CSV spelling. A stride walk prints as "seq".
func (p Pattern) String() string {
	if p == Random {
		return "random"
	}
	return "seq"
}

// ParsePattern accepts "random", "stride" and "seq".
func ParsePattern(s string) (Pattern, bool) {
	switch s {
	case "random":
		return Random, true
	case "stride", "seq":
		return Sequential, true
	}
	return Sequential, false
}

// Work is one worker's assignment.
type Work struct {
	Buf     []byte
	Step    uint64 // touch granularity in bytes; 0 means one cache line
	Mix     Mix
	Pattern Pattern
	Iters   uint64
	Seed    uint64 // Random only; 0 is replaced by constants.GoldenSeed
	Costs   Costs  // zero value means DefaultCosts
}

// Result is what one worker measured.
type Result struct {
	Touches      uint64
	Reads        uint64
	Writes       uint64
	TrafficBytes float64
	Seconds      float64
	GBps         float64
}

// Step returns the effective touch granularity.
func (w Work) step() uint64 {
	if w.Step == 0 {
		return constants.CacheLineBytes
	}
	return w.Step
}

// TouchesPerPass is ⌈len(buf)/step⌉.
func TouchesPerPass(bytes, step uint64) uint64 {
	if step == 0 {
		step = constants.CacheLineBytes
	}
	return utils.CeilDiv(bytes, step)
}

// Run performs the work and times it with c.
func Run(w Work, c clock.Clock) Result {
	step := w.step()
	steps := TouchesPerPass(uint64(len(w.Buf)), step)
	costs := w.Costs.orDefault()

	reads, writes := w.Mix.Split(steps)
	res := Result{
		Touches: w.Iters * steps,
		Reads:   w.Iters * reads,
		Writes:  w.Iters * writes,
	}
	if res.Touches == 0 {
		return res
	}

	t := clock.NewTimer(c)
	t.Start()
	var acc uint64
	if w.Pattern == Random {
		seed := w.Seed
		if seed == 0 {
			seed = constants.GoldenSeed
		}
		acc = runRandom(w.Buf, step, steps, w.Iters, w.Mix, seed)
	} else {
		acc = runSequential(w.Buf, step, w.Iters, w.Mix)
	}
	res.Seconds = t.Stop()
	sink += acc

	res.TrafficBytes = float64(res.Touches) * costs.PerTouch(w.Mix)
	res.GBps = res.TrafficBytes / res.Seconds / 1e9
	return res
}

// ═══════════════════════════════════════════════════════════════════════════
// SEQUENTIAL (STRIDE WALK)
// ═══════════════════════════════════════════════════════════════════════════

func runSequential(b []byte, step, iters uint64, m Mix) uint64 {
	var acc uint64
	n := uint64(len(b))
	switch m {
	case AllRead:
		for it := uint64(0); it < iters; it++ {
			for i := uint64(0); i < n; i += step {
				acc += uint64(b[i])
			}
		}
	case AllWrite:
		for it := uint64(0); it < iters; it++ {
			v := byte(it + 1)
			for i := uint64(0); i < n; i += step {
				b[i] = v
			}
		}
	case Read70Write30:
		for it := uint64(0); it < iters; it++ {
			v := byte(it + 1)
			pos := 0
			for i := uint64(0); i < n; i += step {
				if pos < 7 {
					acc += uint64(b[i])
				} else {
					b[i] = v
				}
				if pos++; pos == 10 {
					pos = 0
				}
			}
		}
	default: // Read50Write50
		for it := uint64(0); it < iters; it++ {
			v := byte(it + 1)
			var pos uint64
			for i := uint64(0); i < n; i, pos = i+step, pos+1 {
				if pos&1 == 1 {
					acc += uint64(b[i])
				} else {
					b[i] = v
				}
			}
		}
	}
	return acc
}

// ═══════════════════════════════════════════════════════════════════════════
// RANDOM OFFSETS
// ═══════════════════════════════════════════════════════════════════════════

func runRandom(b []byte, step, steps, iters uint64, m Mix, seed uint64) uint64 {
	var acc uint64
	r := seed
	switch m {
	case AllRead:
		for it := uint64(0); it < iters; it++ {
			for s := uint64(0); s < steps; s++ {
				off := (utils.Xorshift64(&r) % steps) * step
				acc += uint64(b[off])
			}
		}
	case AllWrite:
		for it := uint64(0); it < iters; it++ {
			v := byte(it + 1)
			for s := uint64(0); s < steps; s++ {
				off := (utils.Xorshift64(&r) % steps) * step
				b[off] = v
			}
		}
	case Read70Write30:
		for it := uint64(0); it < iters; it++ {
			v := byte(it + 1)
			pos := 0
			for s := uint64(0); s < steps; s++ {
				off := (utils.Xorshift64(&r) % steps) * step
				if pos < 7 {
					acc += uint64(b[off])
				} else {
					b[off] = v
				}
				if pos++; pos == 10 {
					pos = 0
				}
			}
		}
	default: // Read50Write50
		for it := uint64(0); it < iters; it++ {
			v := byte(it + 1)
			for s := uint64(0); s < steps; s++ {
				off := (utils.Xorshift64(&r) % steps) * step
				if s&1 == 1 {
					acc += uint64(b[off])
				} else {
					b[off] = v
				}
			}
		}
	}
	return acc
}
