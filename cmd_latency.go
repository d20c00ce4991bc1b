package main

import (
	"os"
	"time"

	"memlab/affinity"
	"memlab/cli"
	"memlab/clock"
	"memlab/constants"
	"memlab/debug"
	"memlab/latency"
	"memlab/report"
	"memlab/ring"
	"memlab/stats"
)

const calibrationWindow = 200 * time.Millisecond

func runLatency(s *session, args []string) {
	c := s.file.Latency
	var calibrate bool

	sc := cli.New()
	s.bindCommon(sc)
	sc.Uint("--min_kb", &c.MinKB)
	sc.Uint("--max_mb", &c.MaxMB)
	sc.Uint("--stride", &c.Stride)
	sc.Uint("--iters", &c.Iters)
	sc.Int("--cpu", &c.CPU)
	sc.Int("--reps", &c.Reps)
	sc.Uint("--seed", &c.Seed)
	sc.Bool("--huge", &c.Huge)
	sc.Bool("--calibrate", &calibrate)
	sc.Choice("--pattern", func(w string) bool {
		if _, ok := ring.ParseKind(w); ok {
			c.Pattern = w
			return true
		}
		return false
	})
	sc.Scan(args)
	s.open(report.LatencyRow{})

	kind, ok := ring.ParseKind(c.Pattern)
	if !ok {
		debug.DropWarning("unknown latency pattern, using random", debug.Fields{"pattern": c.Pattern})
		kind = ring.Random
	}

	cfg := latency.Config{
		MinKB:   c.MinKB,
		MaxMB:   c.MaxMB,
		StrideB: c.Stride,
		Iters:   c.Iters,
		CPU:     c.CPU,
		Reps:    c.Reps,
		Pattern: kind,
		Seed:    c.Seed,
		Huge:    c.Huge,
		Pinner:  affinity.OS{},
	}
	s.require(latency.PeakBytes(cfg), "latency ring")
	cfg.Clock = s.cycleClock(calibrate, c.CPU)

	quiesce()

	var (
		samples []float64
		current uint64
	)
	flush := func() {
		if len(samples) > 0 {
			stats.Summarize(samples).Log("latency", debug.Fields{"bytes": current, "unit": "ns"})
		}
		samples = samples[:0]
	}
	err := latency.Sweep(cfg, func(m latency.Measurement) {
		if m.Bytes != current {
			flush()
			current = m.Bytes
		}
		samples = append(samples, m.NsPerHop)
		s.emit(report.LatencyRow{
			Bytes:      m.Bytes,
			Pattern:    m.Pattern.String(),
			StrideB:    m.StrideB,
			Iters:      m.Iters,
			Repetition: m.Repetition,
			LatNs:      m.NsPerHop,
		})
	})
	if err != nil {
		fatal("latency sweep", err)
	}
	flush()
}

// cycleClock resolves the latency clock frequency and returns the hardware
// clock at that rate. Fallback frequencies are announced because every
// nanosecond figure inherits their error.
func (s *session) cycleClock(calibrate bool, cpu int) clock.Clock {
	hz, src := clock.ResolveHz(os.Getenv(constants.ClockHzEnv), s.file.Clock.Hz)
	clk := clock.Hardware(hz)
	if _, isWall := clk.(clock.Monotonic); isWall {
		debug.DropFields("clock", debug.Fields{"clock": clk.Name(), "hz": clk.Hz()})
		return clk
	}

	if calibrate {
		hz = calibrateOn(clk, cpu)
		clk = clock.Hardware(hz)
		src = clock.SourceCalibrated
	}
	if src == clock.SourceFallback {
		debug.DropWarning("assumed clock frequency, absolute latencies carry systematic error", debug.Fields{
			"hz":          hz,
			"nominal_mhz": s.host.NominalMHz,
			"override":    constants.ClockHzEnv,
		})
	}
	debug.DropFields("clock", debug.Fields{"clock": clk.Name(), "hz": hz, "source": src.String()})
	return clk
}

// calibrateOn measures clk on a thread pinned to cpu. The thread exits while
// locked so its affinity never leaks back into the scheduler's pool.
func calibrateOn(clk clock.Clock, cpu int) float64 {
	done := make(chan float64)
	go func() {
		affinity.PinCurrent(affinity.OS{}, cpu)
		done <- clock.Calibrate(clk, calibrationWindow)
	}()
	return <-done
}
