package utils

import "strconv"

///////////////////////////////////////////////////////////////////////////////
// Conversion Utilities — Number Formatting
///////////////////////////////////////////////////////////////////////////////

// Itoa formats a signed integer in base 10.
func Itoa(n int) string {
	return strconv.Itoa(n)
}

// Utoa formats an unsigned 64-bit integer in base 10.
func Utoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}

// Ftoa formats a float with six fixed decimals, the layout every CSV
// column of memlab uses.
func Ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

///////////////////////////////////////////////////////////////////////////////
// Best-Effort Decoders — Leading Digits Only
///////////////////////////////////////////////////////////////////////////////

// ParseUintPrefix parses the leading decimal digits of s.
// ok is false when s has no leading digit; trailing garbage is ignored,
// so "64k" yields 64. Overflow saturates.
//
//go:nosplit
func ParseUintPrefix(s string) (v uint64, ok bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		ok = true
		d := uint64(c - '0')
		if v > (^uint64(0)-d)/10 {
			return ^uint64(0), true
		}
		v = v*10 + d
	}
	return v, ok
}

// ParseIntPrefix is ParseUintPrefix with an optional leading '-'.
func ParseIntPrefix(s string) (int, bool) {
	neg := len(s) > 0 && s[0] == '-'
	if neg {
		s = s[1:]
	}
	u, ok := ParseUintPrefix(s)
	if !ok {
		return 0, false
	}
	const maxInt = int(^uint(0) >> 1)
	if u > uint64(maxInt) {
		u = uint64(maxInt)
	}
	if neg {
		return -int(u), true
	}
	return int(u), true
}

///////////////////////////////////////////////////////////////////////////////
// Integer Helpers
///////////////////////////////////////////////////////////////////////////////

// CeilDiv returns ⌈a / b⌉ for b > 0.
//
//go:nosplit
//go:inline
func CeilDiv(a, b uint64) uint64 {
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// Gcd returns the greatest common divisor (Euclid). Gcd(0, n) == n.
//
//go:nosplit
func Gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

///////////////////////////////////////////////////////////////////////////////
// Hash & PRNG — Seed Mixing and Offset Generation
///////////////////////////////////////////////////////////////////////////////

// Mix64 applies a Murmur3-style avalanche to a 64-bit value.
// Used to spread a scalar seed into a second independent PCG word.
//
//go:nosplit
//go:inline
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// Xorshift64 advances the state in place and returns it (Marsaglia 13/7/17).
// A zero state is a fixed point; callers must seed with a non-zero value.
//
//go:nosplit
//go:inline
func Xorshift64(x *uint64) uint64 {
	v := *x
	v ^= v << 13
	v ^= v >> 7
	v ^= v << 17
	*x = v
	return v
}
