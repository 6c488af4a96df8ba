// Package gear builds the fixed witness set Q: the first K odd primes
// (2 is skipped and does not count toward K).
package gear

import "github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/primes"

// seedUpperBound is a safe over-estimate of the K-th prime for the K values
// this engine is ever configured with (a few thousand suffices for
// K<=500); it is doubled until it actually yields K primes, so larger K
// still works correctly, just with an extra sieve pass.
const seedUpperBound = 4096

// Gear is the immutable ordered set of odd primes used as Goldbach
// witnesses. It is built once at startup and never mutated.
type Gear struct {
	odd []uint64
}

// Build returns the first k odd primes: it generates primes over a safe
// seed window (sourced from primes.BaseSieve, growing the window until
// enough are found), discards 2 (the only even prime; for even n and odd
// q, n-q is odd, a necessary condition for n-q to be prime), and keeps the
// first k of what remains. E.g. Build(1) == {3}, matching the engine's
// smallest-gear acceptance scenario.
func Build(k int) Gear {
	if k <= 0 {
		return Gear{}
	}

	upper := uint64(seedUpperBound)
	var odd []uint64
	for {
		odd = odd[:0]
		for _, p := range primes.BaseSieve(upper) {
			if p != 2 {
				odd = append(odd, p)
			}
		}
		if len(odd) >= k {
			break
		}
		upper *= 2
	}
	out := make([]uint64, k)
	copy(out, odd[:k])
	return Gear{odd: out}
}

// Odd returns the gear's odd primes in ascending order. Callers must treat
// the returned slice as read-only.
func (g Gear) Odd() []uint64 { return g.odd }

// Len reports the cardinality of the odd-filtered gear.
func (g Gear) Len() int { return len(g.odd) }

// Min and Max return the extremal odd elements. Both panic on an empty
// gear; callers are expected to build a non-trivial gear (K>=1) before use.
func (g Gear) Min() uint64 { return g.odd[0] }
func (g Gear) Max() uint64 { return g.odd[len(g.odd)-1] }
