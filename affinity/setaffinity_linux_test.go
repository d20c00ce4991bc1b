//go:build linux && !tinygo

package affinity

import (
	"errors"
	"runtime"
	"slices"
	"testing"
)

func TestCPUSetBits(t *testing.T) {
	if cpuSetBits < 1024 {
		t.Errorf("cpuSetBits = %d, want at least 1024", cpuSetBits)
	}
	if err := (OS{}).Pin(cpuSetBits); !errors.Is(err, ErrInvalidCPU) {
		t.Errorf("Pin(%d) = %v, want ErrInvalidCPU", cpuSetBits, err)
	}
}

func TestReleaseRestoresStartupMask(t *testing.T) {
	type outcome struct {
		before, after []int
		skip          string
	}
	done := make(chan outcome, 1)

	// The outer lock keeps the goroutine on the same thread across Release.
	go func() {
		runtime.LockOSThread()
		before, err := Allowed()
		if err != nil || len(before) < 2 {
			done <- outcome{skip: "need a readable mask with two or more cpus"}
			return
		}
		if !PinCurrent(OS{}, before[0]) {
			done <- outcome{skip: "sched_setaffinity refused"}
			return
		}
		Release()
		after, _ := Allowed()
		done <- outcome{before: before, after: after}
	}()

	o := <-done
	if o.skip != "" {
		t.Skip(o.skip)
	}
	if !slices.Equal(o.before, o.after) {
		t.Errorf("mask after Release = %v, want %v", o.after, o.before)
	}
}
