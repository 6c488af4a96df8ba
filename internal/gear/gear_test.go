package gear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSmallestGear(t *testing.T) {
	g := Build(1)
	require.Equal(t, 1, g.Len())
	assert.Equal(t, uint64(3), g.Odd()[0])
	assert.Equal(t, uint64(3), g.Min())
	assert.Equal(t, uint64(3), g.Max())
}

func TestBuildExcludesTwo(t *testing.T) {
	g := Build(20)
	for _, p := range g.Odd() {
		assert.NotEqual(t, uint64(2), p)
	}
	assert.Equal(t, 20, g.Len())
}

func TestBuildOrdered(t *testing.T) {
	g := Build(50)
	odd := g.Odd()
	for i := 1; i < len(odd); i++ {
		assert.Less(t, odd[i-1], odd[i])
	}
	assert.Equal(t, odd[0], g.Min())
	assert.Equal(t, odd[len(odd)-1], g.Max())
}

func TestBuildZero(t *testing.T) {
	g := Build(0)
	assert.Equal(t, 0, g.Len())
}

func TestBuildLargeGrowsSeedWindow(t *testing.T) {
	// 1000 odd primes exceeds the default seed window (4096 sieve limit
	// yields far fewer than 1000 primes), exercising the doubling loop.
	g := Build(1000)
	require.Equal(t, 1000, g.Len())
	assert.NotContains(t, g.Odd(), uint64(2))
}
