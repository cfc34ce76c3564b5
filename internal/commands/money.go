package commands

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finplan-dev/finplan/internal/model"
)

func newMoneyCommand(baseDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "money",
		Short: "Manage the money ledger",
	}
	cmd.AddCommand(
		newMoneyAddCommand(baseDir),
		newMoneyListCommand(baseDir),
		newMoneyDeleteCommand(baseDir),
	)
	return cmd
}

func newMoneyAddCommand(baseDir *string) *cobra.Command {
	var (
		entryType    string
		sourceOrDest string
		amount       string
		notes        string
		link         string
		date         string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a ledger entry and snapshot the file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(*baseDir)
			if err != nil {
				return err
			}

			amountDec, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}
			entryDate, err := env.parseDateFlag(date)
			if err != nil {
				return err
			}

			var linked uuid.NullUUID
			if link != "" {
				linked.UUID, err = uuid.Parse(link)
				if err != nil {
					return fmt.Errorf("parsing linked item id %q: %w", link, err)
				}
				linked.Valid = true
			}

			entry := model.MoneyRecord{
				ID:                  uuid.New(),
				Date:                entryDate,
				EntryType:           model.EntryType(entryType),
				SourceOrDestination: sourceOrDest,
				Amount:              amountDec,
				Notes:               notes,
				LinkedItemID:        linked,
			}

			moneyPath := env.cfg.Settings.Paths.MoneyCSV
			entries, err := env.store.ReadMoney(moneyPath)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
			if err := env.store.WriteMoney(moneyPath, entries); err != nil {
				return err
			}
			if _, err := env.snapshot(cmd, moneyPath); err != nil {
				return err
			}

			env.audit("money.add", entry.ID.String(), string(entry.EntryType))
			cmd.Println("Money entry added.")
			return nil
		},
	}

	cmd.Flags().StringVar(&entryType, "type", string(model.EntryExpense), "entry type (income, expense, transfer)")
	cmd.Flags().StringVar(&sourceOrDest, "source", "", "counterparty: where the money came from or went (required)")
	_ = cmd.MarkFlagRequired("source")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	cmd.Flags().StringVar(&link, "link", "", "ID of the item this entry paid for")
	cmd.Flags().StringVar(&date, "date", "", "entry date (defaults to now)")

	return cmd
}

func newMoneyListCommand(baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ledger entries oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(*baseDir)
			if err != nil {
				return err
			}

			entries, err := env.store.ReadMoney(env.cfg.Settings.Paths.MoneyCSV)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("No money entries found.")
				return nil
			}

			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].Date.Before(entries[j].Date)
			})
			for _, entry := range entries {
				linked := "unlinked"
				if entry.LinkedItemID.Valid {
					linked = entry.LinkedItemID.UUID.String()
				}
				cmd.Printf("%s | %s | %s%s | %s\n",
					entry.Date.Format(env.cfg.Settings.UI.DateFormat),
					entry.EntryType,
					env.cfg.Settings.UI.CurrencySymbol,
					entry.Amount.StringFixed(2),
					linked,
				)
			}
			return nil
		},
	}
}

func newMoneyDeleteCommand(baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a ledger entry by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(*baseDir)
			if err != nil {
				return err
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parsing id %q: %w", args[0], err)
			}

			moneyPath := env.cfg.Settings.Paths.MoneyCSV
			entries, err := env.store.ReadMoney(moneyPath)
			if err != nil {
				return err
			}

			kept := entries[:0]
			for _, entry := range entries {
				if entry.ID != id {
					kept = append(kept, entry)
				}
			}
			if len(kept) == len(entries) {
				return fmt.Errorf("money entry %s not found", id)
			}

			if err := env.store.WriteMoney(moneyPath, kept); err != nil {
				return err
			}
			if _, err := env.snapshot(cmd, moneyPath); err != nil {
				return err
			}

			env.audit("money.delete", id.String(), "")
			cmd.Println("Money entry deleted.")
			return nil
		},
	}
}
