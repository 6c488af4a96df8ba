package millerrabin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrimeCorners(t *testing.T) {
	tests := []struct {
		n    uint64
		want bool
	}{
		{1, false},
		{2, true},
		{3, true},
		{4, false},
		{25, false},
		{2047, false},                  // 23*89, first strong pseudoprime to base 2
		{3215031751, false},            // known Miller-Rabin pseudoprime
		{3825123056546413051, false},   // known strong pseudoprime to the first 9 prime bases
		{math.MaxUint64 - 58, true},    // 2^64-59 is prime
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, IsPrime(tt.n), "IsPrime(%d)", tt.n)
	}
}

func trialDivision(n uint64) bool {
	if n < 2 {
		return false
	}
	for d := uint64(2); d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func TestIsPrimeAgreesWithTrialDivision(t *testing.T) {
	const limit = 2_000_000
	for n := uint64(0); n < limit; n++ {
		if IsPrime(n) != trialDivision(n) {
			t.Fatalf("disagreement at n=%d: IsPrime=%v trial=%v", n, IsPrime(n), trialDivision(n))
		}
	}
}

func TestIsPrimeEvens(t *testing.T) {
	for n := uint64(4); n < 1000; n += 2 {
		assert.False(t, IsPrime(n), "even n=%d must not be prime", n)
	}
}
