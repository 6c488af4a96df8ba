package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := SegmentPath(dir, 7)
	assert.Equal(t, filepath.Join(dir, "seg_00007.json"), path)

	want := Report{Index: 7, NStart: 100, NEnd: 200, Covered: 48, TotalEvens: 48, Pct: 100, Seconds: 1.5}
	require.NoError(t, WriteReport(path, want))

	assert.True(t, Exists(path))
	got, err := ReadReport(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExistsFalseForMissing(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(SegmentPath(dir, 3)))
}

func TestWriteMisses(t *testing.T) {
	dir := t.TempDir()
	path := SegmentMissesPath(dir, 0)
	require.NoError(t, WriteMisses(path, []int64{94, 1024, 8192}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "94\n1024\n8192\n", string(b))
}

func TestWindowPaths(t *testing.T) {
	dir := "/tmp/x"
	assert.Equal(t, filepath.Join(dir, "window_1000000000000_1000.json"), WindowPath(dir, 1_000_000_000_000, 1000))
	assert.Equal(t, filepath.Join(dir, "window_1000000000000_1000_misses.txt"), WindowMissesPath(dir, 1_000_000_000_000, 1000))
}
