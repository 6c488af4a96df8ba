// Package engine implements the sieve-mode segment worker, the
// MR-mode window worker, and the segment/window orchestrator.
package engine

import (
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/gear"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/millerrabin"
)

// HasWitnessMR reports whether even n has a witness pair (p, q) with
// q in g's odd gear and p = n-q prime, using the deterministic MR64 test
// (with its built-in small-prime trial division acting as a wheel
// prefilter, so composite candidates divisible by a small prime are
// rejected without a full Miller-Rabin round). It is used both as the
// sieve mode's seam verifier and as the entire MR-mode window worker.
func HasWitnessMR(n uint64, g gear.Gear) bool {
	for _, q := range g.Odd() {
		if q >= n {
			continue
		}
		p := n - q
		if p <= 1 {
			continue
		}
		if millerrabin.IsPrime(p) {
			return true
		}
	}
	return false
}
