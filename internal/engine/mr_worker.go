package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/affinity"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/audit"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/gear"
)

// WindowParams bundles the tunables of one MR-mode window run.
type WindowParams struct {
	InnerThreads int
	MissCap      int
	AffinityMask uint64
}

// RunWindow evaluates HasWitnessMR for every even in
// [nStart, nStart+2*(windowEvens-1)] in parallel, and returns the
// window's audit report plus a bounded sample of uncovered evens.
func RunWindow(nStart uint64, windowEvens uint64, g gear.Gear, p WindowParams) (audit.Report, []int64) {
	start := time.Now()

	nEnd := nStart + 2*(windowEvens-1)

	T := p.InnerThreads
	if T < 1 {
		T = 1
	}
	if uint64(T) > windowEvens {
		T = int(windowEvens)
	}

	var covered int64
	var missMu sync.Mutex
	var misses []int64

	var wg sync.WaitGroup
	for t := 0; t < T; t++ {
		lo := uint64(t) * windowEvens / uint64(T)
		hi := uint64(t+1) * windowEvens / uint64(T)

		wg.Add(1)
		go func(t int, lo, hi uint64) {
			defer wg.Done()
			_ = affinity.Default.Pin(t, p.AffinityMask)

			for i := lo; i < hi; i++ {
				n := nStart + 2*i
				if HasWitnessMR(n, g) {
					atomic.AddInt64(&covered, 1)
					continue
				}
				if p.MissCap > 0 {
					missMu.Lock()
					if len(misses) < p.MissCap {
						misses = append(misses, int64(n))
					}
					missMu.Unlock()
				}
			}
		}(t, lo, hi)
	}
	wg.Wait()

	pct := 100.0
	if windowEvens > 0 {
		pct = 100 * float64(covered) / float64(windowEvens)
	}

	return audit.Report{
		Index:      0,
		NStart:     int64(nStart),
		NEnd:       int64(nEnd),
		Covered:    covered,
		TotalEvens: int64(windowEvens),
		Pct:        pct,
		Seconds:    time.Since(start).Seconds(),
	}, misses
}
