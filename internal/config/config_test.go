package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrInitWritesDefaults(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "finplan")

	cfg, err := LoadOrInit(baseDir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(baseDir, "settings.yaml"))
	assert.FileExists(t, filepath.Join(baseDir, "weights.yaml"))
	assert.DirExists(t, cfg.Settings.Paths.BackupDir)
	assert.DirExists(t, filepath.Dir(cfg.Settings.Paths.ItemsCSV))

	assert.Equal(t, 3, cfg.Settings.Backup.KeepRecent)
	assert.Equal(t, 3, cfg.Settings.Backup.KeepHistorical)
	assert.Equal(t, "2006-01-02 15:04", cfg.Settings.UI.DateFormat)
	assert.Equal(t, "$", cfg.Settings.UI.CurrencySymbol)
	assert.True(t, cfg.Settings.UI.Autosave)

	assert.InDelta(t, 1.0, cfg.Weights.Weights.Cost, 0.001)
	assert.Equal(t, 7, cfg.Weights.DateScoring.RecentDays)
	assert.Equal(t, 30, cfg.Weights.DateScoring.MidDays)
	assert.Equal(t, 5, cfg.Weights.UrgencyOverride)
	require.Len(t, cfg.Weights.CostBands, 5)
	assert.Nil(t, cfg.Weights.CostBands[4].Max, "last band is open-ended")
}

func TestLoadOrInitReadsBack(t *testing.T) {
	baseDir := t.TempDir()

	cfg, err := LoadOrInit(baseDir)
	require.NoError(t, err)

	cfg.Settings.Backup.KeepRecent = 5
	cfg.Settings.UI.CurrencySymbol = "€"
	require.NoError(t, Save(filepath.Join(baseDir, "settings.yaml"), cfg.Settings))

	got, err := LoadOrInit(baseDir)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Settings.Backup.KeepRecent)
	assert.Equal(t, "€", got.Settings.UI.CurrencySymbol)
}

func TestLoadOrInitRejectsCorruptYAML(t *testing.T) {
	baseDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(baseDir, "settings.yaml"), []byte("\t:nope"), 0o644))

	_, err := LoadOrInit(baseDir)
	require.Error(t, err)
}

func TestSettingsYAMLShape(t *testing.T) {
	baseDir := t.TempDir()
	_, err := LoadOrInit(baseDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(baseDir, "settings.yaml"))
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "items_csv:")
	assert.Contains(t, text, "keep_recent:")
	assert.Contains(t, text, "keep_historical:")
	assert.Contains(t, text, "date_format:")
}
