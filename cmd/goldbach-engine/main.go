package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/affinity"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/audit"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/config"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/coverage"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/engine"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/gear"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/logging"
	"github.com/joshkartz/Fixed-Gear-Goldbach-Engine/internal/progress"
)

func main() {
	cfgTag := logging.Prefixed("cfg")

	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", cfgTag, err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, logrus.InfoLevel)
	log.Info(fmt.Sprintf("%s mode=%s gear=%d segmentEvens=%d threadsInside=%d resume=%v", cfgTag, cfg.Mode, cfg.Gear, cfg.SegmentEvens, cfg.ThreadsInside, cfg.Resume))

	mask, err := affinity.ParseMask(cfg.AffinityMask)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s invalid --affinityMask: %v\n", cfgTag, err)
		os.Exit(1)
	}

	computeStart := time.Now()

	g := gear.Build(cfg.Gear)
	log.Info(fmt.Sprintf("%s K=%d Qmin=%d Qmax=%d", logging.Prefixed("gear"), g.Len(), g.Min(), g.Max()))

	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s cannot resolve working directory: %v\n", cfgTag, err)
		os.Exit(1)
	}

	o := &engine.Orchestrator{
		Dir:                   dir,
		Log:                   log,
		Resume:                cfg.Resume,
		MaxConcurrentSegments: cfg.MaxConcurrentSegments,
		Segment: engine.SegmentParams{
			Block:        4096,
			InnerThreads: cfg.ThreadsInside,
			MissCap:      cfg.Misses,
			VerifySeams:  cfg.VerifySeams,
			AffinityMask: mask,
		},
		Window: engine.WindowParams{
			InnerThreads: cfg.ThreadsInside,
			MissCap:      cfg.Misses,
			AffinityMask: mask,
		},
	}

	var report struct {
		Covered    int64
		TotalEvens int64
		Pct        float64
	}

	switch cfg.Mode {
	case "sieve":
		totalSlots := uint64(cfg.Limit) / 2
		bs, err := coverage.Construct(totalSlots, uint64(cfg.SegmentEvens))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", logging.Prefixed("Bitset"), err)
			os.Exit(1)
		}
		log.Info(fmt.Sprintf("%s segments=%d segmentEvens=%d", logging.Prefixed("Bitset"), bs.SegmentCount(), bs.SegmentEvens()))

		var bar *progress.ProgressBar
		if bs.SegmentCount() > 1 {
			bar = progress.NewProgressBar(int64(bs.SegmentCount()), "sieve")
			o.OnSegmentDone = func(r audit.Report) { bar.UpdateSegment(r.TotalEvens) }
		}

		r := o.RunSieve(bs, g)
		if bar != nil {
			bar.Finish()
		}
		report.Covered, report.TotalEvens, report.Pct = r.Covered, r.TotalEvens, r.Pct

	case "mr":
		r := o.RunMR(uint64(cfg.StartN), uint64(cfg.WindowEvens), g)
		report.Covered, report.TotalEvens, report.Pct = r.Covered, r.TotalEvens, r.Pct

	default:
		fmt.Fprintf(os.Stderr, "%s invalid --mode %q\n", cfgTag, cfg.Mode)
		os.Exit(1)
	}

	elapsed := time.Since(computeStart)
	rate := float64(report.TotalEvens) / elapsed.Seconds()
	log.Info(fmt.Sprintf("%s covered=%d/%d pct=%.6f in %.3fs (%s evens/s)",
		logging.Prefixed("TOTAL"), report.Covered, report.TotalEvens, report.Pct, elapsed.Seconds(), progress.FormatRate(rate)))

	if report.Covered < report.TotalEvens {
		os.Exit(2)
	}
}
