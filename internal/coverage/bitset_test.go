package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetRoundTrip(t *testing.T) {
	b, err := Construct(1000, 64)
	require.NoError(t, err)

	for n := uint64(4); n <= 200; n += 2 {
		assert.False(t, b.Get(n), "n=%d should start unset", n)
	}

	b.Set(100)
	b.Set(4)
	assert.True(t, b.Get(100))
	assert.True(t, b.Get(4))
	assert.False(t, b.Get(102))
}

func TestSetOddOrOutOfRangeIsNoOp(t *testing.T) {
	b, err := Construct(10, 4)
	require.NoError(t, err)

	b.Set(5) // odd
	b.Set(0) // below range
	b.Set(1_000_000)
	for n := uint64(2); n <= 24; n += 2 {
		assert.False(t, b.Get(n))
	}
}

func TestMergeSegmentIdempotent(t *testing.T) {
	b, err := Construct(256, 64)
	require.NoError(t, err)

	local := b.NewThreadLocal(0)
	b.SetLocal(local, 5, b.SegmentEvensHere(0))
	b.SetLocal(local, 40, b.SegmentEvensHere(0))

	require.NoError(t, b.MergeSegment(0, local))
	snapshot1 := b.Get(N(5))

	require.NoError(t, b.MergeSegment(0, local)) // merge again with the same payload
	snapshot2 := b.Get(N(5))

	assert.Equal(t, snapshot1, snapshot2)
	assert.True(t, b.Get(N(5)))
	assert.True(t, b.Get(N(40)))
	assert.False(t, b.Get(N(6)))
}

func TestMergeSegmentWordCountMismatch(t *testing.T) {
	b, err := Construct(256, 64)
	require.NoError(t, err)

	err = b.MergeSegment(0, make([]uint64, 2)) // segment 0 owns 1 word
	assert.ErrorIs(t, err, ErrWordCountMismatch)
}

func TestSegmentCountAndShortLastSegment(t *testing.T) {
	b, err := Construct(130, 64)
	require.NoError(t, err)

	require.Equal(t, 3, b.SegmentCount())
	assert.Equal(t, uint64(64), b.SegmentEvensHere(0))
	assert.Equal(t, uint64(64), b.SegmentEvensHere(1))
	assert.Equal(t, uint64(2), b.SegmentEvensHere(2))
}

func TestConstructClampsSegmentEvens(t *testing.T) {
	b, err := Construct(10, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.SegmentEvens())

	b2, err := Construct(10, 3_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000_000), b2.SegmentEvens())
}

func TestIdxAndNAreInverse(t *testing.T) {
	for n := uint64(2); n < 2000; n += 2 {
		assert.Equal(t, n, N(Idx(n)))
	}
}

func TestSegmentIndependence(t *testing.T) {
	b1, _ := Construct(200, 50)
	b2, _ := Construct(200, 50)

	order1 := []int{0, 1, 2, 3}
	order2 := []int{3, 1, 0, 2}

	apply := func(b *Bitset, order []int) {
		for _, s := range order {
			local := b.NewThreadLocal(s)
			b.SetLocal(local, 1, b.SegmentEvensHere(s))
			_ = b.MergeSegment(s, local)
		}
	}

	apply(b1, order1)
	apply(b2, order2)

	for n := uint64(2); n <= 400; n += 2 {
		assert.Equal(t, b1.Get(n), b2.Get(n), "n=%d", n)
	}
}
