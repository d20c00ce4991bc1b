// ring.go
//
// Index-arena traversal ring for pointer-chase latency. Slot i stores the
// index of the slot visited after i, so a chase is `p = next[p]` repeated:
// every load's address depends on the previous load's value and the CPU
// cannot overlap them.
//
// Invariant: built from a permutation, next forms one cycle through all N
// slots. Built from a non-coprime stride ordering it does not; slots the
// ordering never names keep whatever the backing store held (zero for fresh
// regions) and the reachable cycle is shorter than N.

package ring

// Ring is the next-index table. Next may alias caller-owned memory (for
// example an mmapped region); the Ring never reallocates it.
type Ring struct {
	Next []uint64
}

// New builds a ring of n slots under p on the Go heap.
func New(n int, p Pattern) *Ring {
	return Build(Order(n, p))
}

// Build links order into a fresh ring: next[order[i]] = order[(i+1) mod N].
func Build(order []uint64) *Ring {
	r := &Ring{Next: make([]uint64, len(order))}
	Link(r.Next, order)
	return r
}

// Link writes the ring for order into next. len(next) must be ≥ the largest
// index in order.
//
//go:nosplit
func Link(next, order []uint64) {
	n := len(order)
	if n == 0 {
		return
	}
	for i := 0; i < n-1; i++ {
		next[order[i]] = order[i+1]
	}
	next[order[n-1]] = order[0]
}

// Fill builds the ring for p directly into next, using scratch for the
// ordering. scratch is allocated when nil or too short.
func Fill(next []uint64, p Pattern, scratch []uint64) *Ring {
	if len(scratch) < len(next) {
		scratch = make([]uint64, len(next))
	}
	order := scratch[:len(next)]
	FillOrder(order, p)
	Link(next, order)
	return &Ring{Next: next}
}

// Len is the slot count N.
func (r *Ring) Len() int { return len(r.Next) }

// Visit follows the ring from start for steps hops and returns every index
// seen, start included: len == steps+1.
func (r *Ring) Visit(start uint64, steps int) []uint64 {
	seen := make([]uint64, 0, steps+1)
	p := start
	seen = append(seen, p)
	for i := 0; i < steps; i++ {
		p = r.Next[p]
		seen = append(seen, p)
	}
	return seen
}

// CycleLen counts hops until the walk from start returns to start. It gives
// up after N hops and returns 0 when start lies on a tail rather than a cycle.
func (r *Ring) CycleLen(start uint64) int {
	p := start
	for i := 1; i <= len(r.Next); i++ {
		p = r.Next[p]
		if p == start {
			return i
		}
	}
	return 0
}

// Distinct counts the distinct slots touched in steps hops from start.
func (r *Ring) Distinct(start uint64, steps int) int {
	seen := make([]bool, len(r.Next))
	count := 0
	p := start
	for i := 0; i <= steps; i++ {
		if !seen[p] {
			seen[p] = true
			count++
		}
		p = r.Next[p]
	}
	return count
}

// SingleCycle reports whether the ring is one cycle through every slot.
func (r *Ring) SingleCycle() bool {
	n := len(r.Next)
	return n > 0 && r.CycleLen(0) == n
}
