// Package kernel times a strided SAXPY over float32 arrays.
//
// y[i] = a·x[i] + y[i] for i = 0, s, 2s, … < n. The page span widens the
// stride by whole pages so each touch can land on a fresh page, which moves
// the bottleneck from bandwidth to the TLB. Effective bytes count the full
// stride footprint, so the reported rate is the rate the access pattern
// sweeps memory, not the rate of useful work.
package kernel

import (
	"fmt"

	"memlab/clock"
	"memlab/constants"
	"memlab/debug"
	"memlab/region"
	"memlab/utils"
)

const (
	// Alpha is the SAXPY scale factor.
	Alpha float32 = 2.0

	initX float32 = 1.0
	initY float32 = 0.5

	floatBytes = 4
)

// sink keeps one result element observable.
var sink float32

// Config describes one kernel run.
type Config struct {
	WSBytes  uint64 // per array
	Stride   uint64 // elements; 0 means 1
	PageSpan uint64 // pages added to the stride beyond the first; 0 means 1
	Iters    uint64
	Reps     int
	Huge     bool
	Clock    clock.Clock
}

// Measurement is one repetition.
type Measurement struct {
	WSBytes    uint64
	Stride     uint64 // effective stride in elements
	PageSpan   uint64
	Huge       bool
	Repetition int
	Seconds    float64
	GBps       float64
}

// Elements is the array length for a working set.
func Elements(wsBytes uint64) uint64 {
	return wsBytes / floatBytes
}

// EffectiveStride folds the page span into the element stride.
func EffectiveStride(stride, pageSpan uint64) uint64 {
	if stride == 0 {
		stride = 1
	}
	if pageSpan > 1 {
		stride += (pageSpan - 1) * constants.PageBytes / floatBytes
	}
	return stride
}

// EffectiveBytes is iters × ⌈n/stride⌉·stride elements of x and y.
func EffectiveBytes(n, stride, iters uint64) float64 {
	if stride == 0 {
		stride = 1
	}
	return float64(iters) * float64(utils.CeilDiv(n, stride)*stride) * 2 * floatBytes
}

// Saxpy applies one pass over every stride-th element.
func Saxpy(a float32, x, y []float32, stride uint64) {
	n := uint64(min(len(x), len(y)))
	for i := uint64(0); i < n; i += stride {
		y[i] = a*x[i] + y[i]
	}
}

// Run allocates both arrays, then times cfg.Reps repetitions of cfg.Iters
// passes each and hands every repetition to emit.
func Run(cfg Config, emit func(Measurement)) error {
	if cfg.Clock == nil {
		cfg.Clock = clock.Wall()
	}
	if cfg.PageSpan == 0 {
		cfg.PageSpan = 1
	}
	n := Elements(cfg.WSBytes)
	if n == 0 {
		return fmt.Errorf("kernel working set %d bytes: %w", cfg.WSBytes, region.ErrEmpty)
	}
	stride := EffectiveStride(cfg.Stride, cfg.PageSpan)

	opt := region.Options{Huge: cfg.Huge, Prefault: true}
	xr, err := region.Alloc(n*floatBytes, opt)
	if err != nil {
		return fmt.Errorf("kernel x array: %w", err)
	}
	defer xr.Free()
	yr, err := region.Alloc(n*floatBytes, opt)
	if err != nil {
		return fmt.Errorf("kernel y array: %w", err)
	}
	defer yr.Free()

	debug.DropFields("kernel arrays", debug.Fields{
		"elements":   n,
		"stride":     stride,
		"huge_req":   cfg.Huge,
		"huge_taken": xr.Huge() && yr.Huge(),
	})

	x, y := xr.Float32s(), yr.Float32s()
	for i := range x {
		x[i] = initX
		y[i] = initY
	}

	bytes := EffectiveBytes(n, stride, cfg.Iters)
	t := clock.NewTimer(cfg.Clock)
	for rep := 0; rep < cfg.Reps; rep++ {
		t.Start()
		for it := uint64(0); it < cfg.Iters; it++ {
			Saxpy(Alpha, x, y, stride)
		}
		sec := t.Stop()
		sink = y[0]

		emit(Measurement{
			WSBytes:    cfg.WSBytes,
			Stride:     stride,
			PageSpan:   cfg.PageSpan,
			Huge:       cfg.Huge,
			Repetition: rep,
			Seconds:    sec,
			GBps:       bytes / sec / 1e9,
		})
	}
	return nil
}
