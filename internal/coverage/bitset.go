// Package coverage implements the segmented even-coverage bitset: an
// ordered sequence of fixed-size Segments, each a word array of uint64s,
// addressed by the packed even-slot index idx(n) = n/2 - 1.
package coverage

import (
	"math"

	"github.com/pkg/errors"
)

// ErrCapacityExceeded is returned by Construct when the requested slot
// count or per-segment word count would overflow a platform array index.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrWordCountMismatch is returned by MergeSegment when the supplied
// thread-local word array does not match the segment's own word count —
// an internal invariant violation, not a recoverable condition.
var ErrWordCountMismatch = errors.New("word count mismatch")

// maxSegmentEvens is the hard ceiling on SegmentEvens:
// min(2e9, 2^31*64).
const maxSegmentEvens = 2_000_000_000

// Idx converts an even n >= 2 to its packed slot index.
func Idx(n uint64) uint64 { return n/2 - 1 }

// N converts a packed slot index back to its even value.
func N(idx uint64) uint64 { return (idx + 1) * 2 }

// Segment is one contiguous slot range [s*E, s*E+EvensHere) of the bitset.
type Segment struct {
	EvensHere uint64
	words     []uint64
}

// WordCount reports the number of 64-bit words backing this segment.
func (s *Segment) WordCount() uint64 { return uint64(len(s.words)) }

// Bitset is the segmented even-coverage bitset. It is exclusively
// owned by the orchestrator; segment workers receive write access to
// exactly one segment, only during that segment's parallel-then-merge
// phase, via MergeSegment.
type Bitset struct {
	segmentEvens uint64
	totalSlots   uint64
	segments     []Segment
}

// Construct allocates a Bitset for totalSlots even slots, clamping the
// requested per-segment size to [1, min(requestedSegmentEvens, 2e9,
// 2^31*64)]. It fails with ErrCapacityExceeded if the resulting segment
// count or per-segment word count would overflow a platform int.
func Construct(totalSlots, requestedSegmentEvens uint64) (*Bitset, error) {
	e := requestedSegmentEvens
	if e > maxSegmentEvens {
		e = maxSegmentEvens
	}
	if e < 1 {
		e = 1
	}

	segCount := (totalSlots + e - 1) / e
	if totalSlots == 0 {
		segCount = 0
	}
	if segCount > math.MaxInt32 {
		return nil, errors.Wrapf(ErrCapacityExceeded, "segment count %d exceeds platform bound", segCount)
	}

	segments := make([]Segment, segCount)
	remaining := totalSlots
	for i := range segments {
		here := e
		if here > remaining {
			here = remaining
		}
		remaining -= here

		wordCount := (here + 63) / 64
		if wordCount > math.MaxInt32 {
			return nil, errors.Wrapf(ErrCapacityExceeded, "segment %d word count %d exceeds platform bound", i, wordCount)
		}
		segments[i] = Segment{EvensHere: here, words: make([]uint64, wordCount)}
	}

	return &Bitset{segmentEvens: e, totalSlots: totalSlots, segments: segments}, nil
}

// SegmentEvens is the fixed E this bitset was constructed with.
func (b *Bitset) SegmentEvens() uint64 { return b.segmentEvens }

// TotalSlots is the total number of even slots this bitset covers.
func (b *Bitset) TotalSlots() uint64 { return b.totalSlots }

// SegmentCount reports the number of segments.
func (b *Bitset) SegmentCount() int { return len(b.segments) }

// SegmentWordCount reports the word count owned by segment s.
func (b *Bitset) SegmentWordCount(s int) uint64 { return b.segments[s].WordCount() }

// SegmentEvensHere reports the number of even slots segment s represents
// (the last segment may be shorter than SegmentEvens).
func (b *Bitset) SegmentEvensHere(s int) uint64 { return b.segments[s].EvensHere }

// address resolves a global slot index to (segment, local index), and
// whether that index falls within the bitset at all.
func (b *Bitset) address(idx uint64) (seg int, local uint64, ok bool) {
	if b.segmentEvens == 0 {
		return 0, 0, false
	}
	seg = int(idx / b.segmentEvens)
	if seg < 0 || seg >= len(b.segments) {
		return 0, 0, false
	}
	local = idx % b.segmentEvens
	if local >= b.segments[seg].EvensHere {
		return 0, 0, false
	}
	return seg, local, true
}

// Set marks even n as covered. It is a no-op if n is out of range. Set is
// not required to be thread-safe: hot-path writes go through thread-local
// buffers and MergeSegment (see NewThreadLocal/MergeSegment below).
func (b *Bitset) Set(n uint64) {
	if n < 2 || n%2 != 0 {
		return
	}
	seg, local, ok := b.address(Idx(n))
	if !ok {
		return
	}
	b.segments[seg].words[local/64] |= 1 << (local % 64)
}

// Get reports whether even n is currently marked covered.
func (b *Bitset) Get(n uint64) bool {
	if n < 2 || n%2 != 0 {
		return false
	}
	seg, local, ok := b.address(Idx(n))
	if !ok {
		return false
	}
	return b.segments[seg].words[local/64]&(1<<(local%64)) != 0
}

// NewThreadLocal allocates a zeroed word array sized to exactly match
// segment s's word count, for use as one worker's private write buffer
// during the segment's parallel phase.
func (b *Bitset) NewThreadLocal(s int) []uint64 {
	return make([]uint64, b.segments[s].WordCount())
}

// SetLocal marks local slot position localIdx (0-based within segment s)
// in a thread-local word array. It is a no-op if localIdx falls outside
// the segment's local window, e.g. contributions from expansion/overlap
// padding that land outside the true segment.
func (b *Bitset) SetLocal(local []uint64, localIdx uint64, evensHere uint64) {
	if localIdx >= evensHere {
		return
	}
	local[localIdx/64] |= 1 << (localIdx % 64)
}

// MergeSegment ORs each word of a completed thread-local buffer into
// segment s. This is the only sanctioned multi-writer path into the
// shared bitset, and must be invoked strictly after a barrier that
// ordered every thread-local write before it (the segment worker's
// WaitGroup.Wait). Calling it twice with the same payload is idempotent:
// OR-ing the same bits again changes nothing.
func (b *Bitset) MergeSegment(s int, localWords []uint64) error {
	seg := &b.segments[s]
	if uint64(len(localWords)) != seg.WordCount() {
		return errors.Wrapf(ErrWordCountMismatch, "segment %d: got %d words, want %d", s, len(localWords), seg.WordCount())
	}
	for i, w := range localWords {
		seg.words[i] |= w
	}
	return nil
}
