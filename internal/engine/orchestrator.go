package engine

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/audit"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/coverage"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/gear"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/logging"
)

// Orchestrator drives the segment/window partition, parallel dispatch,
// resume, and aggregation.
type Orchestrator struct {
	Dir                   string // working directory for audit artifacts
	Log                   *logrus.Logger
	Resume                bool
	MaxConcurrentSegments int
	Segment               SegmentParams
	Window                WindowParams

	// OnSegmentDone, if set, is invoked once per segment (resumed from
	// checkpoint or freshly computed) as RunSieve finishes it, with that
	// segment's TotalEvens. Callers use it to drive a progress bar; it
	// must be safe to call from multiple goroutines.
	OnSegmentDone func(report audit.Report)
}

func (o *Orchestrator) logf(format string, args ...interface{}) {
	if o.Log == nil {
		return
	}
	o.Log.Info(fmt.Sprintf(format, args...))
}

// RunSieve partitions bs into its fixed segments, dispatches segment
// workers up to MaxConcurrentSegments in parallel, skipping segments
// whose audit file already exists when Resume is set, and aggregates
// Covered/TotalEvens across all completed segments.
func (o *Orchestrator) RunSieve(bs *coverage.Bitset, g gear.Gear) audit.Report {
	segCount := bs.SegmentCount()
	reports := make([]*audit.Report, segCount)

	workers := o.MaxConcurrentSegments
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for s := 0; s < segCount; s++ {
		segPath := audit.SegmentPath(o.Dir, s)

		segTag := logging.Prefixed(fmt.Sprintf("seg %05d", s))

		if o.Resume && audit.Exists(segPath) {
			if r, err := audit.ReadReport(segPath); err == nil {
				reports[s] = &r
				o.logf("%s resumed from checkpoint: covered=%d/%d", segTag, r.Covered, r.TotalEvens)
				if o.OnSegmentDone != nil {
					o.OnSegmentDone(r)
				}
				continue
			}
			o.logf("%s resume checkpoint unreadable, recomputing", segTag)
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(s int) {
			defer wg.Done()
			defer func() { <-sem }()

			report, misses := RunSegment(bs, s, g, o.Segment, o.Log)
			reports[s] = &report

			if err := audit.WriteReport(segPath, report); err != nil {
				o.logf("%s IOError writing report: %v", segTag, err)
			}
			if len(misses) > 0 {
				if err := audit.WriteMisses(audit.SegmentMissesPath(o.Dir, s), misses); err != nil {
					o.logf("%s IOError writing misses: %v", segTag, err)
				}
			}
			o.logf("%s covered=%d/%d pct=%.6f in %.3fs", segTag, report.Covered, report.TotalEvens, report.Pct, report.Seconds)
			if o.OnSegmentDone != nil {
				o.OnSegmentDone(report)
			}
		}(s)
	}
	wg.Wait()

	return aggregate(reports)
}

// RunMR evaluates a single MR-mode window and writes its audit artifacts.
func (o *Orchestrator) RunMR(nStart, windowEvens uint64, g gear.Gear) audit.Report {
	windowTag := logging.Prefixed("window")
	report, misses := RunWindow(nStart, windowEvens, g, o.Window)

	path := audit.WindowPath(o.Dir, int64(nStart), int64(windowEvens))
	if err := audit.WriteReport(path, report); err != nil {
		o.logf("%s IOError writing report: %v", windowTag, err)
	}
	if len(misses) > 0 {
		if err := audit.WriteMisses(audit.WindowMissesPath(o.Dir, int64(nStart), int64(windowEvens)), misses); err != nil {
			o.logf("%s IOError writing misses: %v", windowTag, err)
		}
	}
	o.logf("%s covered=%d/%d pct=%.6f in %.3fs", windowTag, report.Covered, report.TotalEvens, report.Pct, report.Seconds)
	if o.OnSegmentDone != nil {
		o.OnSegmentDone(report)
	}

	return report
}

// aggregate sums Covered/TotalEvens across every non-nil report,
// independent of the order segments completed in.
func aggregate(reports []*audit.Report) audit.Report {
	var covered, total int64
	var seconds float64
	for _, r := range reports {
		if r == nil {
			continue
		}
		covered += r.Covered
		total += r.TotalEvens
		seconds += r.Seconds
	}
	pct := 100.0
	if total > 0 {
		pct = 100 * float64(covered) / float64(total)
	}
	return audit.Report{Index: -1, Covered: covered, TotalEvens: total, Pct: pct, Seconds: seconds}
}
