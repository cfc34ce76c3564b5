package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finplan-dev/finplan/internal/model"
	"github.com/finplan-dev/finplan/internal/scoring"
)

func newItemsCommand(baseDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage planned expenditure items",
	}
	cmd.AddCommand(
		newItemsAddCommand(baseDir),
		newItemsListCommand(baseDir),
		newItemsDeleteCommand(baseDir),
		newItemsImportCommand(baseDir),
	)
	return cmd
}

func newItemsAddCommand(baseDir *string) *cobra.Command {
	var (
		description   string
		location      string
		reference     string
		cost          string
		urgency       int
		value         int
		priceComp     int
		effect        int
		justification string
		recurrence    string
		date          string
	)

	cmd := &cobra.Command{
		Use:   "add <product>",
		Short: "Add an item, score it, and snapshot the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(*baseDir)
			if err != nil {
				return err
			}

			costDec, err := decimal.NewFromString(cost)
			if err != nil {
				return fmt.Errorf("parsing cost %q: %w", cost, err)
			}
			itemDate, err := env.parseDateFlag(date)
			if err != nil {
				return err
			}

			item := model.ItemRecord{
				ID:            uuid.New(),
				Date:          itemDate,
				Product:       args[0],
				Description:   description,
				Location:      location,
				Reference:     reference,
				Cost:          costDec,
				Urgency:       urgency,
				Value:         value,
				PriceComp:     priceComp,
				Effect:        effect,
				Justification: justification,
				Recurrence:    recurrence,
			}
			scored := scoring.ScoreItem(item, env.cfg.Weights, time.Now())
			item.OverallScore = decimal.NullDecimal{
				Decimal: decimal.NewFromFloat(scored.Overall).Round(2),
				Valid:   true,
			}

			itemsPath := env.cfg.Settings.Paths.ItemsCSV
			items, err := env.store.ReadItems(itemsPath)
			if err != nil {
				return err
			}
			items = append(items, item)
			if err := env.store.WriteItems(itemsPath, items); err != nil {
				return err
			}
			if _, err := env.snapshot(cmd, itemsPath); err != nil {
				return err
			}

			env.audit("item.add", item.ID.String(), item.Product)
			cmd.Printf("Item added: %s (score %s)\n", item.Product, item.OverallScore.Decimal.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "what the item is")
	cmd.Flags().StringVar(&location, "location", "local", "where to buy it")
	cmd.Flags().StringVar(&reference, "reference", "", "link or note for the listing")
	cmd.Flags().StringVar(&cost, "cost", "", "expected cost (required)")
	_ = cmd.MarkFlagRequired("cost")
	cmd.Flags().IntVar(&urgency, "urgency", 3, "urgency rating 1-5")
	cmd.Flags().IntVar(&value, "value", 3, "value rating 1-5")
	cmd.Flags().IntVar(&priceComp, "price-comp", 3, "price comparison rating 1-5")
	cmd.Flags().IntVar(&effect, "effect", 3, "effect rating 1-5")
	cmd.Flags().StringVar(&justification, "justification", "", "why it is worth buying")
	cmd.Flags().StringVar(&recurrence, "recurrence", "none", "recurrence tag")
	cmd.Flags().StringVar(&date, "date", "", "item date (defaults to now)")

	return cmd
}

func newItemsListCommand(baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(*baseDir)
			if err != nil {
				return err
			}

			items, err := env.store.ReadItems(env.cfg.Settings.Paths.ItemsCSV)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				cmd.Println("No items found.")
				return nil
			}

			sort.SliceStable(items, func(i, j int) bool {
				return items[i].Date.Before(items[j].Date)
			})
			for _, item := range items {
				overall := "-"
				if item.OverallScore.Valid {
					overall = item.OverallScore.Decimal.StringFixed(2)
				}
				cmd.Printf("%s | %s | %s%s | urg:%d | overall:%s\n",
					item.Product,
					item.Date.Format(env.cfg.Settings.UI.DateFormat),
					env.cfg.Settings.UI.CurrencySymbol,
					item.Cost.StringFixed(2),
					item.Urgency,
					overall,
				)
			}
			return nil
		},
	}
}

func newItemsDeleteCommand(baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item by ID",
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

			itemsPath := env.cfg.Settings.Paths.ItemsCSV
			items, err := env.store.ReadItems(itemsPath)
			if err != nil {
				return err
			}

			kept := items[:0]
			for _, item := range items {
				if item.ID != id {
					kept = append(kept, item)
				}
			}
			if len(kept) == len(items) {
				return fmt.Errorf("item %s not found", id)
			}

			if err := env.store.WriteItems(itemsPath, kept); err != nil {
				return err
			}
			if _, err := env.snapshot(cmd, itemsPath); err != nil {
				return err
			}

			env.audit("item.delete", id.String(), "")
			cmd.Println("Item deleted.")
			return nil
		},
	}
}

func newItemsImportCommand(baseDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the item collection with one from another items.csv",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(*baseDir)
			if err != nil {
				return err
			}

			imported, err := env.store.ReadItems(args[0])
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}

			itemsPath := env.cfg.Settings.Paths.ItemsCSV
			if err := env.store.WriteItems(itemsPath, imported); err != nil {
				return err
			}
			if _, err := env.snapshot(cmd, itemsPath); err != nil {
				return err
			}

			env.audit("items.import", "", fmt.Sprintf("%d items from %s", len(imported), args[0]))
			cmd.Printf("Imported %d items.\n", len(imported))
			return nil
		},
	}
}
