// Package config loads and persists the planner's settings and scoring
// weights as YAML files under one base directory. Values are resolved here
// and passed explicitly into the core packages; nothing reads configuration
// through a process-wide global.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings is the top-level settings.yaml configuration.
type Settings struct {
	Paths  Paths        `yaml:"paths"`
	Backup BackupPolicy `yaml:"backup"`
	UI     UIConfig     `yaml:"ui"`
}

// Paths locates the record files and the backup directory.
type Paths struct {
	ItemsCSV  string `yaml:"items_csv"`
	MoneyCSV  string `yaml:"money_csv"`
	BackupDir string `yaml:"backup_dir"`
}

// BackupPolicy mirrors the retention policy: how many recent snapshots always
// survive and how many historical ones are sampled from the rest.
type BackupPolicy struct {
	KeepRecent     int `yaml:"keep_recent"`
	KeepHistorical int `yaml:"keep_historical"`
}

// UIConfig holds presentation preferences shared by the CLI and any front-end.
type UIConfig struct {
	DateFormat     string `yaml:"date_format"` // Go reference layout
	CurrencySymbol string `yaml:"currency_symbol"`
	Autosave       bool   `yaml:"autosave"`
}

// Config is the fully resolved configuration for one invocation.
type Config struct {
	Settings Settings
	Weights  Weights
	BaseDir  string
}

// Load reads a YAML config file into out.
func Load(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Save writes a config value to a YAML file.
func Save(path string, cfg any) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// LoadOrInit loads settings.yaml and weights.yaml from baseDir, writing
// defaults for whichever is missing, and ensures the data and backup
// directories exist. An empty baseDir selects DefaultBaseDir.
func LoadOrInit(baseDir string) (*Config, error) {
	if baseDir == "" {
		var err error
		baseDir, err = DefaultBaseDir()
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	settings, err := loadOrWrite(filepath.Join(baseDir, "settings.yaml"), DefaultSettings(baseDir))
	if err != nil {
		return nil, err
	}
	weights, err := loadOrWrite(filepath.Join(baseDir, "weights.yaml"), DefaultWeights())
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{
		settings.Paths.BackupDir,
		filepath.Dir(settings.Paths.ItemsCSV),
		filepath.Dir(settings.Paths.MoneyCSV),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	return &Config{Settings: settings, Weights: weights, BaseDir: baseDir}, nil
}

func loadOrWrite[T any](path string, def T) (T, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, def); err != nil {
			return def, err
		}
		return def, nil
	}
	var value T
	if err := Load(path, &value); err != nil {
		return value, err
	}
	return value, nil
}

// DefaultBaseDir is <user config dir>/finplan.
func DefaultBaseDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "finplan"), nil
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings(baseDir string) Settings {
	dataDir := filepath.Join(baseDir, "data")
	return Settings{
		Paths: Paths{
			ItemsCSV:  filepath.Join(dataDir, "items.csv"),
			MoneyCSV:  filepath.Join(dataDir, "money.csv"),
			BackupDir: filepath.Join(baseDir, "backups"),
		},
		Backup: BackupPolicy{
			KeepRecent:     3,
			KeepHistorical: 3,
		},
		UI: UIConfig{
			DateFormat:     "2006-01-02 15:04",
			CurrencySymbol: "$",
			Autosave:       true,
		},
	}
}
