// Package audit implements the on-disk JSON audit report and miss-list
// files: one report per segment or window, and an optional plain-text
// miss list.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// ErrIO wraps any failure writing or reading an audit artifact. The
// orchestrator logs it and treats the segment's result as non-durable;
// Resume reruns it on the next invocation.
var ErrIO = errors.New("audit io error")

// Report is the shared record type for both a sieve-mode segment and an
// MR-mode window: the two regimes share the MR64 primitive but otherwise
// do not share code paths, beyond this record.
type Report struct {
	Index      int     `json:"Index"`
	NStart     int64   `json:"NStart"`
	NEnd       int64   `json:"NEnd"`
	Covered    int64   `json:"Covered"`
	TotalEvens int64   `json:"TotalEvens"`
	Pct        float64 `json:"Pct"`
	Seconds    float64 `json:"Seconds"`
}

// SegmentPath returns the deterministic audit path for segment index s
// (zero-padded to 5 digits) inside dir.
func SegmentPath(dir string, s int) string {
	return filepath.Join(dir, fmt.Sprintf("seg_%05d.json", s))
}

// SegmentMissesPath returns the deterministic miss-list path for segment s.
func SegmentMissesPath(dir string, s int) string {
	return filepath.Join(dir, fmt.Sprintf("seg_%05d_misses.txt", s))
}

// WindowPath returns the deterministic audit path for an MR-mode window.
func WindowPath(dir string, nStart, windowEvens int64) string {
	return filepath.Join(dir, fmt.Sprintf("window_%d_%d.json", nStart, windowEvens))
}

// WindowMissesPath returns the deterministic miss-list path for an
// MR-mode window.
func WindowMissesPath(dir string, nStart, windowEvens int64) string {
	return filepath.Join(dir, fmt.Sprintf("window_%d_%d_misses.txt", nStart, windowEvens))
}

// WriteReport serializes r as a single JSON object to path.
func WriteReport(path string, r Report) error {
	b, err := json.Marshal(r)
	if err != nil {
		return errors.Wrapf(ErrIO, "marshal report for %s: %v", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrapf(ErrIO, "write %s: %v", path, err)
	}
	return nil
}

// ReadReport deserializes a previously-written report, for Resume.
func ReadReport(path string) (Report, error) {
	var r Report
	b, err := os.ReadFile(path)
	if err != nil {
		return r, errors.Wrapf(ErrIO, "read %s: %v", path, err)
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, errors.Wrapf(ErrIO, "unmarshal %s: %v", path, err)
	}
	return r, nil
}

// Exists reports whether an audit file is present at path, for the
// orchestrator's --resume skip check.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteMisses writes one decimal even n per line to path. An empty misses
// slice still writes an (empty) file, so a resumed run observes the same
// file shape a completed one would have produced.
func WriteMisses(path string, misses []int64) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(ErrIO, "create %s: %v", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, n := range misses {
		if _, err := w.WriteString(strconv.FormatInt(n, 10)); err != nil {
			return errors.Wrapf(ErrIO, "write %s: %v", path, err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return errors.Wrapf(ErrIO, "write %s: %v", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(ErrIO, "flush %s: %v", path, err)
	}
	return nil
}
