package main

import (
	"memlab/affinity"
	"memlab/bandwidth"
	"memlab/cli"
	"memlab/clock"
	"memlab/control"
	"memlab/debug"
	"memlab/driver"
	"memlab/region"
	"memlab/report"
	"memlab/stats"
)

func runBandwidth(s *session, args []string) {
	c := s.file.Bandwidth

	sc := cli.New()
	s.bindCommon(sc)
	sc.Uint("--bytes", &c.Bytes)
	sc.Int("--threads", &c.Threads)
	sc.Uint("--stride", &c.Stride)
	sc.Int("--reps", &c.Reps)
	sc.Uint("--iters", &c.Iters)
	sc.Int("--cpu0", &c.CPU0)
	sc.Bool("--huge", &c.Huge)
	for _, m := range []bandwidth.Mix{bandwidth.AllRead, bandwidth.AllWrite, bandwidth.Read70Write30, bandwidth.Read50Write50} {
		sc.Switch("--"+m.String(), func() { c.Mix = m.String() })
	}
	sc.Choice("--rw", func(w string) bool {
		if _, ok := bandwidth.ParseMix(w); ok {
			c.Mix = w
			return true
		}
		return false
	})
	sc.Choice("--pattern", func(w string) bool {
		if _, ok := bandwidth.ParsePattern(w); ok {
			c.Pattern = w
			return true
		}
		return false
	})
	sc.Scan(args)
	s.open(report.BandwidthRow{})

	mix, ok := bandwidth.ParseMix(c.Mix)
	if !ok {
		debug.DropWarning("unknown read/write mix, using 100R", debug.Fields{"rw": c.Mix})
	}
	pattern, ok := bandwidth.ParsePattern(c.Pattern)
	if !ok {
		debug.DropWarning("unknown bw pattern, using seq", debug.Fields{"pattern": c.Pattern})
	}
	if c.Threads < 1 {
		c.Threads = 1
	}

	driver.Preflight(c.Threads, c.CPU0, s.host.LogicalCPUs)
	s.require(c.Bytes, "bandwidth region")
	buf, err := region.Alloc(c.Bytes, region.Options{Huge: c.Huge, Prefault: true})
	if err != nil {
		fatal("bandwidth region", err)
	}
	defer buf.Free()
	debug.DropFields("bandwidth region", debug.Fields{
		"bytes":      c.Bytes,
		"huge_req":   c.Huge,
		"huge_taken": buf.Huge(),
	})

	quiesce()

	template := bandwidth.Work{
		Step:    c.Stride,
		Mix:     mix,
		Pattern: pattern,
		Iters:   c.Iters,
		Costs:   bandwidth.Costs{ReadBytes: c.ReadBytes, WriteBytes: c.WriteBytes},
	}
	var gate control.Gate
	samples := make([]float64, 0, c.Reps)
	for rep := 0; rep < c.Reps; rep++ {
		res := driver.Run(driver.Config{
			Buf:        buf.Bytes(),
			Threads:    c.Threads,
			CPU0:       c.CPU0,
			Template:   template,
			Repetition: rep,
			Pinner:     affinity.OS{},
			Clock:      clock.Wall(),
			Gate:       &gate,
		})
		for k, w := range res.PerWorker {
			debug.DropDebug("worker", debug.Fields{
				"repetition": rep,
				"worker":     k,
				"touches":    w.Touches,
				"seconds":    w.Seconds,
				"GBps":       w.GBps,
			})
		}
		samples = append(samples, res.GBps)
		s.emit(report.BandwidthRow{
			Bytes:      c.Bytes,
			Threads:    c.Threads,
			StrideB:    c.Stride,
			Mix:        mix.String(),
			Pattern:    pattern.String(),
			Repetition: rep,
			GBps:       res.GBps,
			LatEstNs:   res.LatEstNs,
		})
	}
	stats.Summarize(samples).Log("bw", debug.Fields{
		"bytes":   c.Bytes,
		"threads": c.Threads,
		"rw":      mix.String(),
		"unit":    "GB/s",
	})
}
