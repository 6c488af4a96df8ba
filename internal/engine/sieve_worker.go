package engine

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/affinity"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/audit"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/coverage"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/gear"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/logging"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/primes"
)

// minOverlapSlots is the floor of the slot-overlap padding:
// overlap = max(1024, 2*Q_max).
const minOverlapSlots = 1024

// seamBand is the span in n (about seamBand/2 evens) at each end of a
// segment that the seam verifier cross-checks against MR64, a conservative
// default.
const seamBand = 200

// SegmentParams bundles the tunables of one segment's worker run. The seam
// band and the overlap floor are not among them: they are the package
// constants seamBand and minOverlapSlots.
type SegmentParams struct {
	Block        uint64 // inner sieve block length
	InnerThreads int    // T: static partition width over segPrimes
	MissCap      int    // bound on the miss sample appended to the report
	VerifySeams  bool
	AffinityMask uint64
}

// maxSub returns max(floor, a-b), without underflowing when a <= b.
func maxSub(a, b, floor uint64) uint64 {
	if a <= b {
		return floor
	}
	d := a - b
	if d < floor {
		return floor
	}
	return d
}

// RunSegment computes coverage for segment segIdx of bs, using gear g, and
// returns its audit report and (if enabled) a bounded sample of uncovered
// evens. It never mutates any other segment.
func RunSegment(bs *coverage.Bitset, segIdx int, g gear.Gear, p SegmentParams, log *logrus.Logger) (audit.Report, []int64) {
	start := time.Now()

	// A segment index past the last segment is empty.
	var evensHere uint64
	if segIdx < bs.SegmentCount() {
		evensHere = bs.SegmentEvensHere(segIdx)
	}
	idxStart := uint64(segIdx) * bs.SegmentEvens()
	if evensHere == 0 {
		return audit.Report{Index: segIdx, Pct: 100, Seconds: time.Since(start).Seconds()}, nil
	}
	idxEnd := idxStart + evensHere - 1

	nStart := coverage.N(idxStart)
	nEnd := coverage.N(idxEnd)

	overlap := minOverlapSlots
	if 2*g.Max() > uint64(overlap) {
		overlap = int(2 * g.Max())
	}
	idxStartX := idxStart
	if idxStart > uint64(overlap) {
		idxStartX = idxStart - uint64(overlap)
	} else {
		idxStartX = 0
	}
	idxEndX := idxEnd + uint64(overlap)
	if total := bs.TotalSlots(); idxEndX > total-1 {
		idxEndX = total - 1
	}
	nStartX := coverage.N(idxStartX)
	nEndX := coverage.N(idxEndX)

	pLo := maxSub(nStartX, g.Max(), 2)
	pHi := maxSub(nEndX, g.Min(), 2)

	basePrimes := primes.BaseSieve(primes.IsqrtCeil(pHi) + 1)
	segPrimes := primes.Collect(pLo, pHi, basePrimes, p.Block)

	T := p.InnerThreads
	if T < 1 {
		T = 1
	}
	if T > len(segPrimes) && len(segPrimes) > 0 {
		T = len(segPrimes)
	}
	if T < 1 {
		T = 1
	}

	locals := make([][]uint64, T)
	var wg sync.WaitGroup
	n := len(segPrimes)
	for t := 0; t < T; t++ {
		lo := t * n / T
		hi := (t + 1) * n / T
		locals[t] = bs.NewThreadLocal(segIdx)

		wg.Add(1)
		go func(t, lo, hi int) {
			defer wg.Done()
			_ = affinity.Default.Pin(t, p.AffinityMask)

			local := locals[t]
			odd := g.Odd()
			for _, pr := range segPrimes[lo:hi] {
				for _, q := range odd {
					n := pr + q
					if n%2 != 0 {
						continue
					}
					slot := coverage.Idx(n)
					if slot < idxStart || slot > idxEnd {
						continue
					}
					bs.SetLocal(local, slot-idxStart, evensHere)
				}
			}
		}(t, lo, hi)
	}
	wg.Wait()

	for t := 0; t < T; t++ {
		if err := bs.MergeSegment(segIdx, locals[t]); err != nil {
			// WordCountMismatch is an internal invariant violation; the
			// caller (orchestrator) treats this as fatal to the run.
			panic(err)
		}
	}

	if p.VerifySeams {
		verifySeam(bs, segIdx, nStart, nEnd, g, log)
	}

	effectiveNStart := nStart
	if segIdx == 0 && effectiveNStart < 6 {
		effectiveNStart = 6
	}

	var totalEvens, covered int64
	var misses []int64
	if effectiveNStart <= nEnd {
		totalEvens = int64((nEnd-effectiveNStart)/2) + 1
		for n := effectiveNStart; n <= nEnd; n += 2 {
			if bs.Get(n) {
				covered++
			} else if p.MissCap > 0 && len(misses) < p.MissCap {
				misses = append(misses, int64(n))
			}
		}
	}

	pct := 100.0
	if totalEvens > 0 {
		pct = 100 * float64(covered) / float64(totalEvens)
	}

	return audit.Report{
		Index:      segIdx,
		NStart:     int64(nStart),
		NEnd:       int64(nEnd),
		Covered:    covered,
		TotalEvens: totalEvens,
		Pct:        pct,
		Seconds:    time.Since(start).Seconds(),
	}, misses
}

// verifySeam cross-checks the first/last ~seamBand/2 evens of a segment
// against MR64. It never alters coverage: a discrepancy is logged as a
// diagnostic (SeamAnomaly) to investigate, not a data fix.
func verifySeam(bs *coverage.Bitset, segIdx int, nStart, nEnd uint64, g gear.Gear, log *logrus.Logger) {
	check := func(lo, hi uint64) {
		for n := lo; n <= hi; n += 2 {
			if bs.Get(n) {
				continue
			}
			if HasWitnessMR(n, g) {
				if log != nil {
					log.WithFields(logrus.Fields{
						"segIndex": segIdx,
						"n":        n,
					}).Warn(logging.Prefixed("seam") + " anomaly: witness exists but bit unset")
				}
			}
		}
	}

	lo1 := nStart
	if lo1 < 6 {
		lo1 = 6
	}
	hi1 := nStart + uint64(seamBand)
	if hi1 > nEnd {
		hi1 = nEnd
	}
	if lo1 <= hi1 {
		check(lo1, hi1)
	}

	hi2 := nEnd
	lo2 := nStart
	if nEnd > nStart+uint64(seamBand-2) {
		lo2 = nEnd - uint64(seamBand-2)
	}
	if lo2 < 6 {
		lo2 = 6
	}
	if lo2 <= hi2 {
		check(lo2, hi2)
	}
}
