// ════════════════════════════════════════════════════════════════════════════════════════════════
// Pointer-Chase Latency
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: zero-queue load latency across working-set sizes
//
// Description:
//   A chase performs `p = next[p]` a fixed number of times. Each load's
//   address is the previous load's value, so no two loads are ever in flight
//   together and the elapsed time divided by the hop count is the latency of
//   one access at whatever level of the hierarchy the working set lives in.
//   Sweeping the working set by doubling exposes cache and TLB capacities as
//   steps in the latency curve.
//
// Notes:
//   - Only the traversal is timed; ring construction and prefaulting are not.
//   - Hops may exceed N; the ring is simply lapped.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package latency

import (
	"fmt"

	"memlab/affinity"
	"memlab/clock"
	"memlab/constants"
	"memlab/debug"
	"memlab/region"
	"memlab/ring"
	"memlab/utils"
)

// sink receives the final chase index so the loop has an observable result.
var sink uint64

// Measurement is one repetition at one working-set size.
type Measurement struct {
	Bytes      uint64
	Pattern    ring.Kind
	StrideB    uint64
	Iters      uint64
	Repetition int
	Seconds    float64
	NsPerHop   float64
}

// Chase walks next for exactly iters dependent hops from slot 0 and returns
// nanoseconds per hop and the elapsed seconds.
func Chase(next []uint64, iters uint64, c clock.Clock) (nsPerHop, seconds float64) {
	if iters == 0 || len(next) == 0 {
		return 0, 0
	}
	t := clock.NewTimer(c)
	p := uint64(0)

	t.Start()
	for i := uint64(0); i < iters; i++ {
		p = next[p]
	}
	seconds = t.Stop()

	sink = p
	return seconds * 1e9 / float64(iters), seconds
}

// Config drives a size sweep.
type Config struct {
	MinKB   uint64
	MaxMB   uint64
	StrideB uint64
	Iters   uint64
	CPU     int
	Reps    int
	Pattern ring.Kind
	Seed    uint64
	Huge    bool

	Clock  clock.Clock
	Pinner affinity.Pinner
}

// Sizes lists the swept working sets in bytes: MinKB KiB doubling up to and
// including MaxMB MiB. MinKB 0 starts at 1 KiB.
func Sizes(minKB, maxMB uint64) []uint64 {
	if minKB == 0 {
		minKB = 1
	}
	var sizes []uint64
	top := maxMB << 20
	for sz := minKB << 10; sz <= top && sz != 0; sz <<= 1 {
		sizes = append(sizes, sz)
	}
	return sizes
}

// Slots is the ring length for a working set of sz bytes.
func Slots(sz uint64) uint64 {
	return max(constants.MinRingSlots, sz/constants.SlotBytes)
}

// StrideElems converts a byte stride to ring elements (at least one).
func StrideElems(strideB uint64) uint64 {
	return max(1, strideB/constants.SlotBytes)
}

// PeakBytes is the largest simultaneous allocation a sweep makes: the
// biggest ring plus its ordering scratch.
func PeakBytes(cfg Config) uint64 {
	sizes := Sizes(cfg.MinKB, cfg.MaxMB)
	if len(sizes) == 0 {
		return 0
	}
	return 2 * Slots(sizes[len(sizes)-1]) * constants.SlotBytes
}

// Sweep measures every size in Sizes(cfg.MinKB, cfg.MaxMB), cfg.Reps times
// each, and hands each Measurement to emit as soon as it exists. An
// allocation failure stops the sweep and is returned.
func Sweep(cfg Config, emit func(Measurement)) error {
	if cfg.Clock == nil {
		cfg.Clock = clock.Wall()
	}
	affinity.PinCurrent(cfg.Pinner, cfg.CPU)
	defer affinity.Release()

	strideElems := StrideElems(cfg.StrideB)
	for _, sz := range Sizes(cfg.MinKB, cfg.MaxMB) {
		n := Slots(sz)
		if cfg.Pattern == ring.FixedStride && !ring.Coprime(strideElems, n) {
			debug.DropWarning("stride walk does not cover the working set", debug.Fields{
				"bytes":        sz,
				"slots":        n,
				"stride_elems": strideElems,
				"covered":      n / utils.Gcd(strideElems, n),
			})
		}

		buf, err := region.Alloc(n*constants.SlotBytes, region.Options{Huge: cfg.Huge, Prefault: true})
		if err != nil {
			return fmt.Errorf("latency ring for %d bytes: %w", sz, err)
		}
		scratch, err := region.Alloc(n*constants.SlotBytes, region.Options{})
		if err != nil {
			buf.Free()
			return fmt.Errorf("latency ordering for %d bytes: %w", sz, err)
		}

		r := ring.Fill(buf.Uint64s(), ring.Pattern{
			Kind:        cfg.Pattern,
			StrideElems: strideElems,
			Seed:        cfg.Seed,
		}, scratch.Uint64s())
		scratch.Free()

		for rep := 0; rep < cfg.Reps; rep++ {
			ns, sec := Chase(r.Next, cfg.Iters, cfg.Clock)
			emit(Measurement{
				Bytes:      sz,
				Pattern:    cfg.Pattern,
				StrideB:    cfg.StrideB,
				Iters:      cfg.Iters,
				Repetition: rep,
				Seconds:    sec,
				NsPerHop:   ns,
			})
		}
		buf.Free()
	}
	return nil
}
