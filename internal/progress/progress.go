// Package progress renders a terminal progress bar for long-running
// segment/window sweeps. Unlike a generic byte/item counter, it tracks two
// domain quantities at once: segments (or windows) completed, for the bar
// itself, and evens covered, for the reported throughput.
package progress

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressBar is a simple terminal progress bar that writes to stderr.
type ProgressBar struct {
	total        int64
	completed    int64
	evensCovered int64
	width        int
	startTime    time.Time
	description  string
	mu           sync.Mutex
}

// NewProgressBar builds a bar over `total` segments (sieve mode) or windows
// (mr mode), not the evens within them.
func NewProgressBar(total int64, description string) *ProgressBar {
	return &ProgressBar{
		total:       total,
		width:       40,
		description: description,
		startTime:   time.Now(),
	}
}

// UpdateSegment records one completed segment/window, covering evensCovered
// evens, and redraws the bar. The evens count drives the displayed
// throughput; the bar itself advances by one unit.
func (p *ProgressBar) UpdateSegment(evensCovered int64) {
	p.mu.Lock()
	p.completed++
	p.evensCovered += evensCovered
	p.render()
	p.mu.Unlock()
}

func (p *ProgressBar) Finish() {
	p.mu.Lock()
	p.completed = p.total
	p.render()
	fmt.Fprintln(os.Stderr)
	p.mu.Unlock()
}

func (p *ProgressBar) render() {
	if p.total == 0 {
		return
	}

	percent := float64(p.completed) / float64(p.total)
	if percent > 1.0 {
		percent = 1.0
	}

	filled := int(percent * float64(p.width))

	elapsed := time.Since(p.startTime)
	rate := float64(p.evensCovered) / elapsed.Seconds()
	var rateStr string
	if rate >= 1_000_000 {
		rateStr = fmt.Sprintf("%.1fM evens/s", rate/1_000_000)
	} else if rate >= 1_000 {
		rateStr = fmt.Sprintf("%.1fK evens/s", rate/1_000)
	} else {
		rateStr = fmt.Sprintf("%.0f evens/s", rate)
	}

	fmt.Fprintf(os.Stderr, "\r%s: [%s%s] %3.0f%% | %d/%d | %s",
		p.description,
		strings.Repeat("=", filled),
		strings.Repeat(" ", p.width-filled),
		percent*100,
		p.completed,
		p.total,
		rateStr)
}

// FormatRate renders a throughput value with thousands separators, e.g.
// 1234567.0 -> "1,234,567".
func FormatRate(rate float64) string {
	s := fmt.Sprintf("%.0f", rate)
	n := len(s)
	if n <= 3 {
		return s
	}

	var sb strings.Builder
	sb.Grow(n + n/3)
	offset := n % 3
	if offset == 0 {
		offset = 3
	}
	sb.WriteString(s[:offset])
	for i := offset; i < n; i += 3 {
		sb.WriteByte(',')
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
