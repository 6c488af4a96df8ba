// Package millerrabin implements a deterministic Miller-Rabin primality
// test for all unsigned 64-bit integers, used both by the high-range
// MR mode and by the sieve mode's seam verifier.
package millerrabin

import "math/bits"

// smallPrimes is tried by trial division before any Miller-Rabin round:
// it rejects every composite n below 59*59 immediately and filters out the
// bulk of larger composites cheaply.
var smallPrimes = [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53}

// bases is a fixed witness set known sufficient to make Miller-Rabin
// deterministic for every n < 2^64 (the first 12 primes; the shorter set
// 2..17 is fooled by strong pseudoprimes such as 3825123056546413051).
var bases = [...]uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37}

// IsPrime reports whether n is prime, exactly, for any n representable in
// a uint64.
func IsPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	for _, s := range smallPrimes {
		if n == s {
			return true
		}
		if n%s == 0 {
			return false
		}
	}

	d := n - 1
	s := 0
	for d%2 == 0 {
		d /= 2
		s++
	}

	for _, a := range bases {
		if a%n == 0 {
			continue
		}
		if witnessAccepts(a, d, s, n) {
			continue
		}
		return false
	}
	return true
}

// witnessAccepts reports whether base a is consistent with n being prime,
// i.e. it is not a Miller-Rabin witness to n's compositeness.
func witnessAccepts(a, d uint64, s int, n uint64) bool {
	x := powMod(a, d, n)
	if x == 1 || x == n-1 {
		return true
	}
	for r := 1; r < s; r++ {
		x = mulMod(x, x, n)
		if x == n-1 {
			return true
		}
	}
	return false
}

// powMod computes base^exp mod n using right-to-left binary
// exponentiation; every intermediate multiplication goes through mulMod's
// 128-bit widening multiply, so it is correct for n up to the full
// uint64 range.
func powMod(base, exp, n uint64) uint64 {
	result := uint64(1) % n
	base %= n
	for exp > 0 {
		if exp&1 == 1 {
			result = mulMod(result, base, n)
		}
		base = mulMod(base, base, n)
		exp >>= 1
	}
	return result
}

// mulMod computes (a*b) mod n without overflow by widening the product to
// 128 bits (hi:lo) via bits.Mul64 and reducing with bits.Div64.
func mulMod(a, b, n uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi == 0 {
		return lo % n
	}
	_, rem := bits.Div64(hi%n, lo, n)
	return rem
}
