// Package config parses and validates the engine's CLI surface using
// github.com/spf13/pflag, and fails fast with a wrapped config error
// before any sieve/MR work begins.
package config

import (
	"github.com/pkg/errors"
	flag "github.com/spf13/pflag"
)

// ErrConfig is the sentinel for every configuration problem: a missing
// required flag, a non-positive numeric value, or an invalid mode.
var ErrConfig = errors.New("config error")

// A worker-count default of 0 means "unset": --threads fills it when given;
// otherwise the engine picks its own value.
const (
	DefaultGear                  = 310
	DefaultSegmentEvens           = 2_000_000
	DefaultMaxConcurrentSegments = 0 // 0 => runtime.NumCPU()
	DefaultThreadsInside         = 0 // 0 => one inner worker
	DefaultMisses                = 0
)

// Config holds the fully parsed and validated CLI surface.
type Config struct {
	Mode                  string
	Limit                 int64
	StartN                int64
	WindowEvens           int64
	Gear                  int
	Threads               int
	SegmentEvens          int64
	MaxConcurrentSegments int
	ThreadsInside         int
	Misses                int
	Resume                bool
	VerifySeams           bool
	AffinityMask          string
}

// Parse parses args (excluding the program name) into a Config and
// validates it. Unknown flags are ignored.
func Parse(args []string) (Config, error) {
	fs := flag.NewFlagSet("goldbach-engine", flag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	var c Config
	fs.StringVar(&c.Mode, "mode", "sieve", `execution regime: "sieve" or "mr"`)
	fs.Int64Var(&c.Limit, "limit", 0, "L: maximum even for sieve mode")
	fs.Int64Var(&c.StartN, "startN", 0, "nStart for mr mode")
	fs.Int64Var(&c.WindowEvens, "windowEvens", 0, "window size for mr mode")
	fs.IntVar(&c.Gear, "gear", DefaultGear, "K: gear cardinality")
	fs.IntVar(&c.Threads, "threads", 0, "outer parallelism hint")
	fs.Int64Var(&c.SegmentEvens, "segmentEvens", DefaultSegmentEvens, "requested E")
	fs.IntVar(&c.MaxConcurrentSegments, "maxConcurrentSegments", DefaultMaxConcurrentSegments, "outer cap")
	fs.IntVar(&c.ThreadsInside, "threadsInside", DefaultThreadsInside, "T: inner parallelism")
	fs.IntVar(&c.Misses, "misses", DefaultMisses, "miss sample cap per segment/window")
	fs.BoolVar(&c.Resume, "resume", false, "enable audit-based skip")
	fs.BoolVar(&c.VerifySeams, "verifySeams", true, "enable seam verifier")
	fs.StringVar(&c.AffinityMask, "affinityMask", "", "CPU mask for process / inner pin")

	if err := fs.Parse(args); err != nil {
		return Config{}, errors.Wrap(ErrConfig, err.Error())
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	c.applyThreadsDefault()
	return c, nil
}

// applyThreadsDefault makes --threads the shared fallback for the two more
// specific parallelism knobs whenever the caller left them at 0 (meaning
// "unset"), so a single --threads=N sizes both the outer segment dispatch
// and each segment's inner worker fan-out.
func (c *Config) applyThreadsDefault() {
	if c.Threads <= 0 {
		return
	}
	if c.MaxConcurrentSegments == 0 {
		c.MaxConcurrentSegments = c.Threads
	}
	if c.ThreadsInside == 0 {
		c.ThreadsInside = c.Threads
	}
}

// Validate checks required-field and range invariants for the selected
// mode, failing fast before any segment/window work is dispatched.
func (c Config) Validate() error {
	switch c.Mode {
	case "sieve":
		if c.Limit <= 0 {
			return errors.Wrap(ErrConfig, "--limit must be > 0 in sieve mode")
		}
	case "mr":
		if c.StartN <= 0 {
			return errors.Wrap(ErrConfig, "--startN must be > 0 in mr mode")
		}
		if c.StartN%2 != 0 {
			return errors.Wrap(ErrConfig, "--startN must be even in mr mode")
		}
		if c.WindowEvens <= 0 {
			return errors.Wrap(ErrConfig, "--windowEvens must be > 0 in mr mode")
		}
	default:
		return errors.Wrapf(ErrConfig, "invalid --mode %q: must be \"sieve\" or \"mr\"", c.Mode)
	}

	if c.Gear < 1 {
		return errors.Wrap(ErrConfig, "--gear must be >= 1")
	}
	if c.SegmentEvens < 1 {
		return errors.Wrap(ErrConfig, "--segmentEvens must be >= 1")
	}
	if c.Misses < 0 {
		return errors.Wrap(ErrConfig, "--misses must be >= 0")
	}
	return nil
}
