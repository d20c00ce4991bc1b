package clock

import "time"

// Calibrate estimates the tick frequency of c by spinning for d of wall time.
// The result is only as good as the scheduler lets it be; pin the calling
// thread first. A non-positive d or an unusable sample yields c.Hz().
func Calibrate(c Clock, d time.Duration) float64 {
	if d <= 0 {
		return c.Hz()
	}
	start := time.Now()
	t0 := c.Start()
	for time.Since(start) < d {
	}
	t1 := c.Stop()
	elapsed := time.Since(start)

	if t1 <= t0 || elapsed <= 0 {
		return c.Hz()
	}
	return float64(t1-t0) / elapsed.Seconds()
}
