package commands

import (
	"github.com/spf13/cobra"
)

func newSettingsCommand(baseDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show resolved paths and retention policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(*baseDir)
			if err != nil {
				return err
			}

			s := env.cfg.Settings
			cmd.Printf("Config directory: %s\n", env.cfg.BaseDir)
			cmd.Printf("Items CSV: %s\n", s.Paths.ItemsCSV)
			cmd.Printf("Money CSV: %s\n", s.Paths.MoneyCSV)
			cmd.Printf("Backup dir: %s\n", s.Paths.BackupDir)
			cmd.Printf("Retention: keep %d recent + %d historical\n", s.Backup.KeepRecent, s.Backup.KeepHistorical)
			cmd.Printf("Date format: %s\n", s.UI.DateFormat)
			return nil
		},
	})

	return cmd
}
