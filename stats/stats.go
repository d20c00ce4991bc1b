// Package stats summarises repeated measurements of one configuration.
package stats

import (
	"math"

	"memlab/debug"
)

// Summary describes a sample.
type Summary struct {
	N     int
	Mean  float64
	Stdev float64 // sample standard deviation (n-1); 0 when N < 2
	Min   float64
	Max   float64
}

// Summarize computes a Summary in one pass (Welford). An empty sample yields
// the zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	var m2 float64
	for _, x := range xs {
		s.N++
		d := x - s.Mean
		s.Mean += d / float64(s.N)
		m2 += d * (x - s.Mean)
		s.Min = min(s.Min, x)
		s.Max = max(s.Max, x)
	}
	if s.N > 1 {
		s.Stdev = math.Sqrt(m2 / float64(s.N-1))
	}
	return s
}

// Log writes s to the diagnostic stream under tag, merged with keys.
func (s Summary) Log(tag string, keys debug.Fields) {
	f := debug.Fields{
		"n":     s.N,
		"mean":  s.Mean,
		"stdev": s.Stdev,
		"min":   s.Min,
		"max":   s.Max,
	}
	for k, v := range keys {
		f[k] = v
	}
	debug.DropFields(tag, f)
}
