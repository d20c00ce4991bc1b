// Package region owns the memory every benchmark touches.
//
// A Region is one contiguous byte buffer. On Linux it is an anonymous private
// mapping, so huge-page advice applies to it and it never lives on the Go
// heap; elsewhere it is a plain heap slice. Partition splits a region into
// disjoint spans, one per worker.
package region

import (
	"errors"
	"fmt"
	"math"
	"unsafe"

	"memlab/constants"
	"memlab/debug"
)

var (
	// ErrEmpty is returned for zero-byte requests.
	ErrEmpty = errors.New("region: zero-length allocation")
	// ErrTooLarge is returned when the request cannot be addressed or mapped.
	ErrTooLarge = errors.New("region: allocation too large")
	// ErrUnsupported is returned by Advise on platforms without madvise.
	ErrUnsupported = errors.New("region: huge-page advice not supported on this platform")
)

// Options tune an allocation.
type Options struct {
	// Huge requests transparent huge pages for the mapping (advisory).
	Huge bool
	// Prefault touches every page before Alloc returns.
	Prefault bool
}

// Region is an owned contiguous buffer.
type Region struct {
	buf    []byte
	mapped bool
	huge   bool
}

// Alloc reserves n bytes. The memory reads as zero.
func Alloc(n uint64, opt Options) (*Region, error) {
	if n == 0 {
		return nil, ErrEmpty
	}
	if n > math.MaxInt {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, n)
	}
	buf, mapped, err := allocate(int(n))
	if err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %v", ErrTooLarge, n, err)
	}
	r := &Region{buf: buf, mapped: mapped}
	if opt.Huge {
		if err := r.AdviseHuge(); err != nil {
			debug.DropWarning("huge-page advice ignored", debug.Fields{
				"bytes": n,
				"err":   err,
			})
		}
	}
	if opt.Prefault {
		r.Prefault()
	}
	return r, nil
}

// Bytes returns the whole buffer.
func (r *Region) Bytes() []byte { return r.buf }

// Len is the region size in bytes.
func (r *Region) Len() int { return len(r.buf) }

// Huge reports whether huge-page advice was accepted.
func (r *Region) Huge() bool { return r.huge }

// AdviseHuge asks the kernel to back the region with huge pages.
func (r *Region) AdviseHuge() error {
	if !r.mapped {
		return ErrUnsupported
	}
	if err := adviseHuge(r.buf); err != nil {
		return err
	}
	r.huge = true
	return nil
}

// Prefault writes one byte per page so later timed loops never take a
// first-touch page fault.
func (r *Region) Prefault() {
	Prefault(r.buf)
}

// Prefault touches every page of b.
//
//go:nosplit
func Prefault(b []byte) {
	for i := 0; i < len(b); i += constants.PageBytes {
		b[i] = 0
	}
}

// Uint64s views the region as 8-byte words (trailing bytes are dropped).
func (r *Region) Uint64s() []uint64 {
	n := len(r.buf) / 8
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&r.buf[0])), n)
}

// Float32s views the region as float32 values (trailing bytes are dropped).
func (r *Region) Float32s() []float32 {
	n := len(r.buf) / 4
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.buf[0])), n)
}

// Free releases the region. The Region must not be used afterwards.
func (r *Region) Free() error {
	if r.buf == nil {
		return nil
	}
	var err error
	if r.mapped {
		err = release(r.buf)
	}
	r.buf = nil
	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// PARTITIONING
// ═══════════════════════════════════════════════════════════════════════════

// Span is a half-open byte range [Off, Off+Len).
type Span struct {
	Off, Len int
}

// Partition splits total bytes into parts contiguous, disjoint spans of
// total/parts bytes; the final span absorbs the remainder. parts < 1 is
// treated as 1.
func Partition(total, parts int) []Span {
	if parts < 1 {
		parts = 1
	}
	chunk := total / parts
	spans := make([]Span, parts)
	for k := range spans {
		spans[k] = Span{Off: k * chunk, Len: chunk}
	}
	spans[parts-1].Len = total - (parts-1)*chunk
	return spans
}

// Slice returns the bytes of s inside b.
func (s Span) Slice(b []byte) []byte {
	return b[s.Off : s.Off+s.Len : s.Off+s.Len]
}
