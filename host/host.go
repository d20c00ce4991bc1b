// Package host collects the machine facts memlab reports next to its results
// and guards allocations with. Cache sizes are informational only: sweeps are
// never derived from them.
package host

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"memlab/constants"
	"memlab/debug"
)

// Info is a point-in-time snapshot of the host. Zero fields mean "unknown".
type Info struct {
	Brand        string
	LogicalCPUs  int
	MemTotal     uint64
	MemAvailable uint64
	NominalMHz   float64
	CacheLine    int
	L1D, L2, L3  int
}

// Probe gathers Info. Probe failures leave fields at zero and are logged at
// debug level; they never stop a run.
func Probe() Info {
	info := Info{
		Brand:     cpuid.CPU.BrandName,
		CacheLine: cpuid.CPU.CacheLine,
		L1D:       cpuid.CPU.Cache.L1D,
		L2:        cpuid.CPU.Cache.L2,
		L3:        cpuid.CPU.Cache.L3,
	}
	if info.CacheLine <= 0 {
		info.CacheLine = constants.CacheLineBytes
	}

	if n, err := cpu.Counts(true); err == nil && n > 0 {
		info.LogicalCPUs = n
	} else {
		debug.DropDebug("cpu count", debug.Fields{"err": err})
		info.LogicalCPUs = runtime.NumCPU()
	}

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.NominalMHz = cpus[0].Mhz
		if info.Brand == "" {
			info.Brand = cpus[0].ModelName
		}
	} else {
		debug.DropDebug("cpu info", debug.Fields{"err": err})
	}
	if info.NominalMHz <= 0 && cpuid.CPU.Hz > 0 {
		info.NominalMHz = float64(cpuid.CPU.Hz) / 1e6
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemTotal = vm.Total
		info.MemAvailable = vm.Available
	} else {
		debug.DropDebug("virtual memory", debug.Fields{"err": err})
	}
	return info
}

// Fits reports whether n bytes can be allocated without exceeding available
// memory. Unknown availability always fits.
func (i Info) Fits(n uint64) bool {
	return i.MemAvailable == 0 || n <= i.MemAvailable
}

// Log writes the host banner to the diagnostic stream.
func (i Info) Log() {
	debug.DropFields("host", debug.Fields{
		"cpu":           i.Brand,
		"logical_cpus":  i.LogicalCPUs,
		"nominal_mhz":   i.NominalMHz,
		"cache_line":    i.CacheLine,
		"l1d":           i.L1D,
		"l2":            i.L2,
		"l3":            i.L3,
		"mem_available": i.MemAvailable,
	})
}
