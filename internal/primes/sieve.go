// Package primes implements the base sieve of Eratosthenes and a segmented
// prime enumerator over an arbitrary [lo, hi] window.
package primes

import (
	"bytes"
	"math"
)

// DefaultBlock is the inner block length used by the segmented enumerator,
// chosen so a block's mark buffer comfortably fits in L2/L3 cache.
const DefaultBlock = 32_000_000

// BaseSieve returns, in ascending order, every prime p <= limit using a
// simple composite-marking sieve. limit < 2 yields an empty slice.
func BaseSieve(limit uint64) []uint64 {
	if limit < 2 {
		return nil
	}

	n := int(limit) + 1
	// mark[i] == 1 means i is still a candidate prime.
	mark := append([]byte{0, 0}, bytes.Repeat([]byte{1}, n-2)...)

	lim := int(math.Sqrt(float64(limit)))
	for i := 2; i <= lim; i++ {
		if mark[i] == 1 {
			for j := i * i; j < n; j += i {
				mark[j] = 0
			}
		}
	}

	estimate := n
	if n > 2 {
		estimate = n / int(math.Log(float64(n)))
	}
	out := make([]uint64, 0, estimate)
	for i := 2; i < n; i++ {
		if mark[i] == 1 {
			out = append(out, uint64(i))
		}
	}
	return out
}

// Enumerate streams, in ascending order, every prime p in [lo, hi] using
// basePrimes (which must cover [2, ceil(sqrt(hi))]) and a fixed inner block
// length. yield is called once per prime; it returns false to stop early.
//
// Per block [bLo, bHi]: allocate a byte mark of length bHi-bLo+1 initialized
// to "prime"; for each p in basePrimes, start at max(p^2, ceil(bLo/p)*p) and
// mark multiples composite; yield unmarked indices. Memory is O(block) per
// block, not O(hi-lo).
func Enumerate(lo, hi uint64, basePrimes []uint64, block uint64, yield func(p uint64) bool) {
	if hi < lo {
		return
	}
	if block == 0 {
		block = DefaultBlock
	}

	for bLo := lo; bLo <= hi; bLo += block {
		bHi := bLo + block - 1
		if bHi > hi {
			bHi = hi
		}
		segLen := bHi - bLo + 1

		mark := make([]byte, segLen)
		for i := range mark {
			mark[i] = 1
		}

		for _, p := range basePrimes {
			if p < 2 {
				continue
			}
			start := p * p
			if start < bLo {
				start = ((bLo + p - 1) / p) * p
				if start < p*p {
					start = p * p
				}
			}
			if start < bLo {
				continue
			}
			if start > bHi {
				continue
			}
			for j := start - bLo; j < segLen; j += p {
				mark[j] = 0
			}
		}

		for i := uint64(0); i < segLen; i++ {
			n := bLo + i
			if n < 2 {
				continue
			}
			if mark[i] == 1 {
				if !yield(n) {
					return
				}
			}
		}
	}
}

// Collect materializes Enumerate's output into a slice, as required by a
// segment worker's static partition over its prime window.
func Collect(lo, hi uint64, basePrimes []uint64, block uint64) []uint64 {
	out := make([]uint64, 0, estimateCount(lo, hi))
	Enumerate(lo, hi, basePrimes, block, func(p uint64) bool {
		out = append(out, p)
		return true
	})
	return out
}

func estimateCount(lo, hi uint64) uint64 {
	if hi <= lo {
		return 16
	}
	width := hi - lo
	if hi < 16 {
		return width + 1
	}
	logHi := math.Log(float64(hi))
	if logHi < 1 {
		logHi = 1
	}
	return uint64(float64(width)/logHi) + 16
}

// IsqrtCeil returns ceil(sqrt(n)), the base-prime limit needed to sieve up
// to n; for n < 2 it returns 2.
func IsqrtCeil(n uint64) uint64 {
	if n < 2 {
		return 2
	}
	r := uint64(math.Sqrt(float64(n)))
	for r > 0 && r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	if r*r < n {
		r++
	}
	return r
}
