package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Result reports what a retention pass did. Failed deletions are warnings:
// pruning is best-effort and a single undeletable snapshot never blocks the
// rest of the sweep or fails the operation.
type Result struct {
	Kept    []string
	Removed []string
	Failed  []DeleteFailure
}

// DeleteFailure is one snapshot that could not be removed.
type DeleteFailure struct {
	Path string
	Err  error
}

type candidate struct {
	path    string
	name    string
	modTime int64
}

// EnforceRetention prunes backupDir's snapshots for one stem. Survivors are
// the KeepRecent newest entries plus KeepHistorical stride-sampled from the
// remainder; everything else under the stem is deleted. Snapshots of other
// stems in the same directory are never touched.
func EnforceRetention(backupDir, stem string, policy Policy) (Result, error) {
	// The keep counts are documented non-negative; a negative value from a
	// hand-edited config counts as zero rather than crashing the sweep.
	keepRecent := policy.KeepRecent
	if keepRecent < 0 {
		keepRecent = 0
	}
	keepHistorical := policy.KeepHistorical
	if keepHistorical < 0 {
		keepHistorical = 0
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return Result{}, fmt.Errorf("reading backup dir: %w", err)
	}

	prefix := stem + "_"
	var cands []candidate
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		c := candidate{path: filepath.Join(backupDir, e.Name()), name: e.Name()}
		if info, err := e.Info(); err == nil {
			c.modTime = info.ModTime().UnixNano()
		}
		cands = append(cands, c)
	}

	if len(cands) <= keepRecent+keepHistorical {
		var result Result
		for _, c := range cands {
			result.Kept = append(result.Kept, c.path)
		}
		return result, nil
	}

	// Newest first. Names embed a sortable timestamp, so the name fallback
	// keeps ordering deterministic when modification times collide.
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].modTime != cands[j].modTime {
			return cands[i].modTime > cands[j].modTime
		}
		return cands[i].name > cands[j].name
	})

	recent := cands[:keepRecent]
	rest := cands[keepRecent:]
	historical := sampleHistorical(rest, keepHistorical)

	keep := make(map[string]bool, len(recent)+len(historical))
	for _, c := range recent {
		keep[c.path] = true
	}
	for _, c := range historical {
		keep[c.path] = true
	}

	var result Result
	for _, c := range cands {
		if keep[c.path] {
			result.Kept = append(result.Kept, c.path)
			continue
		}
		if err := os.Remove(c.path); err != nil {
			result.Failed = append(result.Failed, DeleteFailure{Path: c.path, Err: err})
			continue
		}
		result.Removed = append(result.Removed, c.path)
	}
	return result, nil
}

// sampleHistorical stride-samples the newest-first remainder, spreading the
// retained history roughly evenly across the file's whole age instead of
// keeping a contiguous block.
func sampleHistorical(rest []candidate, count int) []candidate {
	if count <= 0 || len(rest) == 0 {
		return nil
	}
	step := len(rest) / count
	if step < 1 {
		step = 1
	}
	var picked []candidate
	for i := 0; i < len(rest) && len(picked) < count; i += step {
		picked = append(picked, rest[i])
	}
	return picked
}
