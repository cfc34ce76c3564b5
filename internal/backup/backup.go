// Package backup snapshots record files into a backup directory and keeps
// each source's snapshots bounded under a recent+historical retention policy.
package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Policy controls how many snapshots survive pruning: KeepRecent newest plus
// KeepHistorical sampled across the remaining history.
type Policy struct {
	KeepRecent     int
	KeepHistorical int
}

// stampLayout is second-precision and lexically sortable, so backup names
// order the same way their timestamps do.
const stampLayout = "20060102150405"

// Manager creates and prunes snapshots. It owns the backup files it creates
// and may delete any snapshot under a stem that retention excludes.
type Manager struct {
	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the timestamp source for backup names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create copies source into backupDir as {stem}_{timestamp}.{ext} and then
// prunes that stem's snapshots per the policy. A missing source is not an
// error: it returns an empty path, meaning no backup was created.
//
// Create is not atomic with whatever write produced the source's current
// state; callers invoke it immediately after a successful save as a
// best-effort durability measure, not a transactional guarantee.
func (m *Manager) Create(source, backupDir string, policy Policy) (string, Result, error) {
	if _, err := os.Stat(source); errors.Is(err, fs.ErrNotExist) {
		return "", Result{}, nil
	} else if err != nil {
		return "", Result{}, fmt.Errorf("checking %s: %w", source, err)
	}

	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", Result{}, fmt.Errorf("creating backup dir: %w", err)
	}

	stem, ext := splitName(filepath.Base(source))
	dest := filepath.Join(backupDir, fmt.Sprintf("%s_%s.%s", stem, m.now().Format(stampLayout), ext))

	if err := copyFile(source, dest); err != nil {
		return "", Result{}, err
	}

	result, err := EnforceRetention(backupDir, stem, policy)
	return dest, result, err
}

// splitName splits a filename into stem and extension (without the dot),
// defaulting to "file" and "bak" when either is absent.
func splitName(base string) (stem, ext string) {
	ext = strings.TrimPrefix(filepath.Ext(base), ".")
	stem = strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "file"
	}
	if ext == "" {
		ext = "bak"
	}
	return stem, ext
}

func copyFile(source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("opening %s: %w", source, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dest, err)
	}
	return nil
}
