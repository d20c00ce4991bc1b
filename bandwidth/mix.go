package bandwidth

import "memlab/constants"

// Mix decides, per touch position, whether the touch loads or stores.
// Classification is positional, never random, so a run is reproducible.
type Mix uint8

const (
	AllRead       Mix = iota // 100R
	AllWrite                 // 100W
	Read70Write30            // 70R30W: positions 0-6 of every 10 read, 7-9 write
	Read50Write50            // 50R50W: odd positions read, even positions write
)

func (m Mix) String() string {
	switch m {
	case AllWrite:
		return "100W"
	case Read70Write30:
		return "70R30W"
	case Read50Write50:
		return "50R50W"
	}
	return "100R"
}

// ParseMix maps "100R", "100W", "70R30W" and "50R50W" to a Mix.
func ParseMix(s string) (Mix, bool) {
	switch s {
	case "100R":
		return AllRead, true
	case "100W":
		return AllWrite, true
	case "70R30W":
		return Read70Write30, true
	case "50R50W":
		return Read50Write50, true
	}
	return AllRead, false
}

// ReadFraction is the share of touches that are loads.
func (m Mix) ReadFraction() float64 {
	switch m {
	case AllWrite:
		return 0
	case Read70Write30:
		return 0.7
	case Read50Write50:
		return 0.5
	}
	return 1
}

// IsRead classifies the touch at position pos within one pass.
//
//go:nosplit
func (m Mix) IsRead(pos uint64) bool {
	switch m {
	case AllWrite:
		return false
	case Read70Write30:
		return pos%10 < 7
	case Read50Write50:
		return pos&1 == 1
	}
	return true
}

// Split counts reads and writes among positions [0, touches).
func (m Mix) Split(touches uint64) (reads, writes uint64) {
	switch m {
	case AllWrite:
		reads = 0
	case Read70Write30:
		reads = touches/10*7 + min(touches%10, 7)
	case Read50Write50:
		reads = touches / 2
	default:
		reads = touches
	}
	return reads, touches - reads
}

// ═══════════════════════════════════════════════════════════════════════════
// TRAFFIC ACCOUNTING
// ═══════════════════════════════════════════════════════════════════════════

// Costs are the assumed memory-interface bytes per touch. They are a
// throughput-accounting convention, not measured hardware events.
type Costs struct {
	ReadBytes  float64
	WriteBytes float64
}

// DefaultCosts: a line fetch per read, RFO plus writeback per write.
var DefaultCosts = Costs{
	ReadBytes:  constants.ReadBytesPerTouch,
	WriteBytes: constants.WriteBytesPerTouch,
}

// PerTouch is the mix-weighted byte cost of one touch
// (64, 128, 83.2 and 96 with DefaultCosts).
func (c Costs) PerTouch(m Mix) float64 {
	f := m.ReadFraction()
	return f*c.ReadBytes + (1-f)*c.WriteBytes
}

func (c Costs) orDefault() Costs {
	if c.ReadBytes <= 0 && c.WriteBytes <= 0 {
		return DefaultCosts
	}
	return c
}
