package commands

import (
	"github.com/spf13/cobra"
)

func newBackupCommand(baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot both record files and prune old backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(*baseDir)
			if err != nil {
				return err
			}

			for _, source := range []string{
				env.cfg.Settings.Paths.ItemsCSV,
				env.cfg.Settings.Paths.MoneyCSV,
			} {
				dest, err := env.snapshot(cmd, source)
				if err != nil {
					return err
				}
				if dest == "" {
					cmd.Printf("%s: nothing to back up\n", source)
					continue
				}
				cmd.Printf("%s -> %s\n", source, dest)
			}

			env.audit("backup", "", "manual snapshot")
			return nil
		},
	}
}
