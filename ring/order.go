// order.go
//
// Access-order generation. An ordering is a sequence over [0, N) that the
// ring turns into a linked traversal. Three shapes:
//
//   • Sequential:  0, 1, …, N-1. Friendly to every prefetcher.
//   • FixedStride: 0, s, 2s, … (mod N). Visits all N slots only when
//                   gcd(s, N) == 1; otherwise the walk closes early and the
//                   ordering repeats a shorter cycle. That degenerate case
//                   is reproduced as-is, never patched.
//   • Random:      a seeded Fisher–Yates shuffle. Same seed, same N, same
//                   permutation. Each call owns its generator.

package ring

import (
	"math/rand/v2"

	"memlab/constants"
	"memlab/utils"
)

// Kind selects the ordering shape.
type Kind uint8

const (
	Sequential Kind = iota
	FixedStride
	Random
)

func (k Kind) String() string {
	switch k {
	case FixedStride:
		return "stride"
	case Random:
		return "random"
	}
	return "seq"
}

// ParseKind maps the CLI spelling ("seq", "stride", "random") to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "seq":
		return Sequential, true
	case "stride":
		return FixedStride, true
	case "random":
		return Random, true
	}
	return Sequential, false
}

// Pattern is an ordering shape plus its parameter.
type Pattern struct {
	Kind Kind
	// StrideElems is the FixedStride step in elements; 0 behaves as 1.
	StrideElems uint64
	// Seed drives the Random shuffle.
	Seed uint64
}

// Order returns the visiting order of n elements under p.
func Order(n int, p Pattern) []uint64 {
	order := make([]uint64, n)
	FillOrder(order, p)
	return order
}

// FillOrder writes the ordering into order, len(order) elements.
func FillOrder(order []uint64, p Pattern) {
	n := uint64(len(order))
	if n == 0 {
		return
	}
	switch p.Kind {
	case FixedStride:
		s := p.StrideElems % n
		if p.StrideElems == 0 {
			s = 1 % n
		}
		for i, pos := uint64(0), uint64(0); i < n; i++ {
			order[i] = pos
			pos += s
			if pos >= n {
				pos -= n
			}
		}
	case Random:
		for i := range order {
			order[i] = uint64(i)
		}
		rng := newRand(p.Seed)
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	default:
		for i := range order {
			order[i] = uint64(i)
		}
	}
}

// newRand builds a private PCG stream from one scalar seed. The second PCG
// word is a mixed copy of the first so nearby seeds diverge immediately.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, utils.Mix64(seed^constants.GoldenSeed)))
}

// Coprime reports whether a stride of s elements visits all n slots.
func Coprime(s, n uint64) bool {
	if n == 0 {
		return false
	}
	if s == 0 {
		s = 1
	}
	return utils.Gcd(s%n, n) == 1
}
