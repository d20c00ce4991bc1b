package report

import (
	"memlab/utils"
)

// ═══════════════════════════════════════════════════════════════════════════
// LATENCY
// ═══════════════════════════════════════════════════════════════════════════

// LatencyRow is one pointer-chase repetition.
type LatencyRow struct {
	Bytes      uint64  `json:"bytes"`
	Pattern    string  `json:"pattern"`
	StrideB    uint64  `json:"stride_B"`
	Iters      uint64  `json:"iter"`
	Repetition int     `json:"repetition"`
	LatNs      float64 `json:"lat_ns_est"`
}

var latencyColumns = []string{"bytes", "pattern", "stride_B", "iter", "repetition", "lat_ns_est"}

func (LatencyRow) Columns() []string { return latencyColumns }

func (r LatencyRow) Cells() []string {
	return []string{
		utils.Utoa(r.Bytes),
		r.Pattern,
		utils.Utoa(r.StrideB),
		utils.Utoa(r.Iters),
		utils.Itoa(r.Repetition),
		utils.Ftoa(r.LatNs),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// BANDWIDTH
// ═══════════════════════════════════════════════════════════════════════════

// BandwidthRow is one parallel bandwidth repetition.
type BandwidthRow struct {
	Bytes      uint64  `json:"bytes"`
	Threads    int     `json:"threads"`
	StrideB    uint64  `json:"stride_B"`
	Mix        string  `json:"rw"`
	Pattern    string  `json:"pattern"`
	Repetition int     `json:"repetition"`
	GBps       float64 `json:"GBps"`
	LatEstNs   float64 `json:"lat_est_ns"`
}

var bandwidthColumns = []string{"bytes", "threads", "stride_B", "rw", "pattern", "repetition", "GBps", "lat_est_ns"}

func (BandwidthRow) Columns() []string { return bandwidthColumns }

func (r BandwidthRow) Cells() []string {
	return []string{
		utils.Utoa(r.Bytes),
		utils.Itoa(r.Threads),
		utils.Utoa(r.StrideB),
		r.Mix,
		r.Pattern,
		utils.Itoa(r.Repetition),
		utils.Ftoa(r.GBps),
		utils.Ftoa(r.LatEstNs),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// KERNEL
// ═══════════════════════════════════════════════════════════════════════════

// KernelRow is one SAXPY repetition.
type KernelRow struct {
	WSBytes    uint64  `json:"ws_bytes"`
	Stride     uint64  `json:"stride_elems"`
	PageSpan   uint64  `json:"page_span"`
	Huge       bool    `json:"huge"`
	Repetition int     `json:"repetition"`
	Seconds    float64 `json:"sec"`
	GBps       float64 `json:"GBps_effective"`
}

var kernelColumns = []string{"ws_bytes", "stride_elems", "page_span", "huge", "repetition", "sec", "GBps_effective"}

func (KernelRow) Columns() []string { return kernelColumns }

func (r KernelRow) Cells() []string {
	huge := "0"
	if r.Huge {
		huge = "1"
	}
	return []string{
		utils.Utoa(r.WSBytes),
		utils.Utoa(r.Stride),
		utils.Utoa(r.PageSpan),
		huge,
		utils.Itoa(r.Repetition),
		utils.Ftoa(r.Seconds),
		utils.Ftoa(r.GBps),
	}
}
