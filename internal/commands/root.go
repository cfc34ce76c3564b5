package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/finplan-dev/finplan/internal/auditlog"
	"github.com/finplan-dev/finplan/internal/backup"
	"github.com/finplan-dev/finplan/internal/buildinfo"
	"github.com/finplan-dev/finplan/internal/config"
	"github.com/finplan-dev/finplan/internal/record"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	// An optional .env can seed FINPLAN_DIR for automation; the core packages
	// only ever see the resolved directory.
	_ = godotenv.Load()

	var baseDir string

	rootCmd := &cobra.Command{
		Use:     "finplan",
		Short:   "Local-first purchase planner and money ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseDir, "dir", os.Getenv("FINPLAN_DIR"),
		"base directory for config and data (defaults to the user config dir)")

	rootCmd.AddCommand(
		newItemsCommand(&baseDir),
		newMoneyCommand(&baseDir),
		newBackupCommand(&baseDir),
		newSettingsCommand(&baseDir),
	)

	return rootCmd
}

// appEnv bundles the resolved configuration with the store and backup manager
// a command invocation works through.
type appEnv struct {
	cfg     *config.Config
	store   *record.Store
	backups *backup.Manager
}

func loadEnv(baseDir string) (*appEnv, error) {
	cfg, err := config.LoadOrInit(baseDir)
	if err != nil {
		return nil, err
	}
	return &appEnv{
		cfg:     cfg,
		store:   record.NewStore(cfg.Settings.UI.DateFormat, nil),
		backups: backup.NewManager(),
	}, nil
}

func (e *appEnv) policy() backup.Policy {
	return backup.Policy{
		KeepRecent:     e.cfg.Settings.Backup.KeepRecent,
		KeepHistorical: e.cfg.Settings.Backup.KeepHistorical,
	}
}

// snapshot backs up source and prunes old snapshots, reporting pruning
// failures as warnings rather than errors. Returns the backup path, empty
// when the source did not exist.
func (e *appEnv) snapshot(cmd *cobra.Command, source string) (string, error) {
	dest, result, err := e.backups.Create(source, e.cfg.Settings.Paths.BackupDir, e.policy())
	if err != nil {
		return "", fmt.Errorf("backing up %s: %w", source, err)
	}
	for _, f := range result.Failed {
		cmd.PrintErrf("warning: could not prune %s: %v\n", f.Path, f.Err)
	}
	return dest, nil
}

// audit appends to the action log, best-effort.
func (e *appEnv) audit(action, recordID, details string) {
	_ = auditlog.Append(e.cfg.BaseDir, []auditlog.Entry{{
		Timestamp: time.Now(),
		Action:    action,
		RecordID:  recordID,
		Details:   details,
	}})
}

// parseDateFlag parses a --date value with the configured layout, defaulting
// to now when the flag was not given.
func (e *appEnv) parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(e.cfg.Settings.UI.DateFormat, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q with format %q: %w", value, e.cfg.Settings.UI.DateFormat, err)
	}
	return t, nil
}
