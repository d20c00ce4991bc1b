package main

import (
	"memlab/affinity"
	"memlab/cli"
	"memlab/clock"
	"memlab/debug"
	"memlab/kernel"
	"memlab/report"
	"memlab/stats"
)

func runKernel(s *session, args []string) {
	c := s.file.Kernel

	sc := cli.New()
	s.bindCommon(sc)
	sc.Uint("--ws_bytes", &c.WSBytes)
	sc.Uint("--stride", &c.Stride)
	sc.Int("--reps", &c.Reps)
	sc.Int("--cpu", &c.CPU)
	sc.Uint("--page_span", &c.PageSpan)
	sc.Bool("--huge", &c.Huge)
	sc.Uint("--iters", &c.Iters)
	sc.Scan(args)
	s.open(report.KernelRow{})

	s.require(2*c.WSBytes, "kernel arrays")

	affinity.PinCurrent(affinity.OS{}, c.CPU)
	defer affinity.Release()

	quiesce()

	samples := make([]float64, 0, c.Reps)
	err := kernel.Run(kernel.Config{
		WSBytes:  c.WSBytes,
		Stride:   c.Stride,
		PageSpan: c.PageSpan,
		Iters:    c.Iters,
		Reps:     c.Reps,
		Huge:     c.Huge,
		Clock:    clock.Wall(),
	}, func(m kernel.Measurement) {
		samples = append(samples, m.GBps)
		s.emit(report.KernelRow{
			WSBytes:    m.WSBytes,
			Stride:     m.Stride,
			PageSpan:   m.PageSpan,
			Huge:       m.Huge,
			Repetition: m.Repetition,
			Seconds:    m.Seconds,
			GBps:       m.GBps,
		})
	})
	if err != nil {
		fatal("kernel", err)
	}
	stats.Summarize(samples).Log("kernel", debug.Fields{
		"ws_bytes":  c.WSBytes,
		"page_span": c.PageSpan,
		"unit":      "GB/s",
	})
}
