package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// writeSnapshot creates a backup file named {stem}_{stamp}.csv whose mtime
// and embedded timestamp both correspond to baseTime+age.
func writeSnapshot(t *testing.T, dir, stem string, age time.Duration) string {
	t.Helper()
	ts := baseTime.Add(age)
	name := fmt.Sprintf("%s_%s.csv", stem, ts.Format(stampLayout))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("snapshot"), 0o644))
	require.NoError(t, os.Chtimes(path, ts, ts))
	return path
}

// snapshots creates n backups for stem, one second apart, oldest first.
func snapshots(t *testing.T, dir, stem string, n int) []string {
	t.Helper()
	paths := make([]string, n)
	for i := 0; i < n; i++ {
		paths[i] = writeSnapshot(t, dir, stem, time.Duration(i)*time.Second)
	}
	return paths
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestAtBoundaryNoDeletion(t *testing.T) {
	dir := t.TempDir()
	snapshots(t, dir, "items", 6)

	result, err := EnforceRetention(dir, "items", Policy{KeepRecent: 3, KeepHistorical: 3})
	require.NoError(t, err)

	assert.Empty(t, result.Removed)
	assert.Empty(t, result.Failed)
	assert.Len(t, result.Kept, 6)
	assert.Len(t, listDir(t, dir), 6)
}

func TestOneOverBoundary(t *testing.T) {
	dir := t.TempDir()
	paths := snapshots(t, dir, "items", 7) // paths[6] is newest

	result, err := EnforceRetention(dir, "items", Policy{KeepRecent: 3, KeepHistorical: 3})
	require.NoError(t, err)

	// recent = 3 newest; rest = [4th..7th newest] newest-first, step =
	// max(1, 4/3) = 1, so the three entries adjacent to recent survive and
	// the oldest is deleted.
	require.Len(t, result.Removed, 1)
	assert.Equal(t, paths[0], result.Removed[0])
	assert.Len(t, result.Kept, 6)
	assert.Len(t, listDir(t, dir), 6)
	assert.NoFileExists(t, paths[0])
}

func TestStrideSamplingDeterministic(t *testing.T) {
	dir := t.TempDir()
	paths := snapshots(t, dir, "items", 10)

	// KeepRecent 0: rest is all ten, newest-first. step = 10/3 = 3,
	// so indices 0, 3, 6 of rest survive: the newest, 4th- and 7th-newest.
	result, err := EnforceRetention(dir, "items", Policy{KeepRecent: 0, KeepHistorical: 3})
	require.NoError(t, err)

	want := []string{paths[9], paths[6], paths[3]}
	assert.ElementsMatch(t, want, result.Kept)
	assert.Len(t, result.Removed, 7)
}

func TestNoHistorical(t *testing.T) {
	dir := t.TempDir()
	paths := snapshots(t, dir, "items", 5)

	result, err := EnforceRetention(dir, "items", Policy{KeepRecent: 2, KeepHistorical: 0})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{paths[4], paths[3]}, result.Kept)
	assert.Len(t, result.Removed, 3)
}

func TestZeroPolicyDeletesEverything(t *testing.T) {
	dir := t.TempDir()
	snapshots(t, dir, "items", 3)

	result, err := EnforceRetention(dir, "items", Policy{})
	require.NoError(t, err)

	assert.Len(t, result.Removed, 3)
	assert.Empty(t, listDir(t, dir))
}

// Negative keep counts can arrive from a hand-edited settings file. They are
// treated as zero rather than panicking the sweep.
func TestNegativePolicyCountsAsZero(t *testing.T) {
	dir := t.TempDir()
	paths := snapshots(t, dir, "items", 4)

	result, err := EnforceRetention(dir, "items", Policy{KeepRecent: -1, KeepHistorical: 3})
	require.NoError(t, err)

	// {0, 3}: rest is all four newest-first, step = 4/3 = 1, so the three
	// newest survive and the oldest goes.
	assert.ElementsMatch(t, []string{paths[3], paths[2], paths[1]}, result.Kept)
	assert.Equal(t, []string{paths[0]}, result.Removed)

	result, err = EnforceRetention(dir, "items", Policy{KeepRecent: -2, KeepHistorical: -2})
	require.NoError(t, err)
	assert.Len(t, result.Removed, 3)
	assert.Empty(t, listDir(t, dir))
}

func TestStemIsolation(t *testing.T) {
	dir := t.TempDir()
	snapshots(t, dir, "apples", 7)
	oranges := snapshots(t, dir, "oranges", 2)

	result, err := EnforceRetention(dir, "apples", Policy{KeepRecent: 2, KeepHistorical: 1})
	require.NoError(t, err)

	assert.Len(t, result.Removed, 4)
	for _, path := range oranges {
		assert.FileExists(t, path, "pruning apples must never touch oranges")
	}
}

func TestStemPrefixDoesNotClaimLongerStem(t *testing.T) {
	dir := t.TempDir()
	snapshots(t, dir, "items", 1)
	other := snapshots(t, dir, "items2", 4)

	result, err := EnforceRetention(dir, "items", Policy{KeepRecent: 1, KeepHistorical: 0})
	require.NoError(t, err)

	assert.Empty(t, result.Removed)
	for _, path := range other {
		assert.FileExists(t, path)
	}
}

func TestDeleteFailureIsBestEffort(t *testing.T) {
	dir := t.TempDir()

	// Oldest candidate is a non-empty directory: os.Remove fails on it, but
	// the sweep must carry on and still prune the other excess snapshot.
	stuck := filepath.Join(dir, "items_"+baseTime.Format(stampLayout)+".csv")
	require.NoError(t, os.MkdirAll(filepath.Join(stuck, "pin"), 0o755))
	ts := baseTime
	require.NoError(t, os.Chtimes(stuck, ts, ts))

	for i := 1; i <= 3; i++ {
		writeSnapshot(t, dir, "items", time.Duration(i)*time.Second)
	}

	result, err := EnforceRetention(dir, "items", Policy{KeepRecent: 1, KeepHistorical: 1})
	require.NoError(t, err, "a stuck snapshot must not abort pruning")

	require.Len(t, result.Failed, 1)
	assert.Equal(t, stuck, result.Failed[0].Path)
	assert.Len(t, result.Removed, 1)
	assert.Len(t, result.Kept, 2)
}

func TestSampleHistoricalEdges(t *testing.T) {
	mk := func(n int) []candidate {
		cands := make([]candidate, n)
		for i := range cands {
			cands[i] = candidate{name: fmt.Sprintf("c%d", i)}
		}
		return cands
	}

	assert.Nil(t, sampleHistorical(mk(5), 0))
	assert.Nil(t, sampleHistorical(nil, 3))

	// Fewer entries than requested: all of rest survives.
	assert.Len(t, sampleHistorical(mk(2), 5), 2)

	// Ten entries, three requested: step 3, indices 0, 3, 6.
	picked := sampleHistorical(mk(10), 3)
	require.Len(t, picked, 3)
	assert.Equal(t, "c0", picked[0].name)
	assert.Equal(t, "c3", picked[1].name)
	assert.Equal(t, "c6", picked[2].name)
}

func TestMissingBackupDir(t *testing.T) {
	_, err := EnforceRetention(filepath.Join(t.TempDir(), "absent"), "items", Policy{KeepRecent: 1})
	require.Error(t, err)
}
