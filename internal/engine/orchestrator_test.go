package engine

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/audit"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/coverage"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/gear"
)

func newOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	return &Orchestrator{
		Dir:                   t.TempDir(),
		MaxConcurrentSegments: 2,
		Segment:               SegmentParams{Block: 4096, InnerThreads: 2, VerifySeams: true},
	}
}

// S5: run S1, delete seg_00001.json, rerun with --resume; seg 0 is
// skipped via checkpoint, seg 1 is recomputed, aggregate matches S1.
func TestScenarioS5Resume(t *testing.T) {
	bs := mustConstruct(t, 100, 32)
	g := gear.Build(20)

	o := newOrchestrator(t)
	baseline := o.RunSieve(bs, g)

	require.True(t, audit.Exists(audit.SegmentPath(o.Dir, 0)), "seg 0 audit file must exist after baseline run")
	require.True(t, audit.Exists(audit.SegmentPath(o.Dir, 1)), "seg 1 audit file must exist after baseline run")
	require.NoError(t, os.Remove(audit.SegmentPath(o.Dir, 1)))

	// New bitset, same dir/params, to simulate a fresh process after a crash.
	bs2 := mustConstruct(t, 100, 32)
	o2 := *o
	o2.Resume = true

	resumed := o2.RunSieve(bs2, g)

	assert.Equal(t, baseline.Covered, resumed.Covered)
	assert.Equal(t, baseline.TotalEvens, resumed.TotalEvens)
}

// OnSegmentDone must fire exactly once per segment, concurrently-safe, with
// that segment's own TotalEvens, regardless of dispatch order.
func TestOnSegmentDoneFiresPerSegment(t *testing.T) {
	bs := mustConstruct(t, 2000, 200)
	g := gear.Build(50)

	o := newOrchestrator(t)
	var mu sync.Mutex
	var calls int
	var evensSeen int64
	o.OnSegmentDone = func(r audit.Report) {
		mu.Lock()
		calls++
		evensSeen += r.TotalEvens
		mu.Unlock()
	}

	final := o.RunSieve(bs, g)

	assert.Equal(t, bs.SegmentCount(), calls)
	assert.Equal(t, final.TotalEvens, evensSeen)
}

func mustConstruct(t *testing.T, limit, segmentEvens uint64) *coverage.Bitset {
	t.Helper()
	bs, err := coverage.Construct(limit/2, segmentEvens)
	require.NoError(t, err)
	return bs
}
