package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"options-strategist/internal/store"
)

func newSavedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved strategies",
	}
	cmd.AddCommand(newSavedListCmd(app))
	cmd.AddCommand(newSavedShowCmd(app))
	cmd.AddCommand(newSavedDeleteCmd(app))
	return cmd
}

// requireStore guards commands that need the database.
func requireStore(app *App) error {
	if app.Store == nil {
		return fmt.Errorf("storage is unavailable")
	}
	return nil
}

func newSavedListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved strategies",
		Example: `  strategist saved list
  strategist saved list --symbol ACME --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			symbol, _ := cmd.Flags().GetString("symbol")
			name, _ := cmd.Flags().GetString("name")
			limit, _ := cmd.Flags().GetInt("limit")

			strategies, err := app.Store.ListStrategies(context.Background(), store.StrategyFilter{
				Symbol: symbol,
				Name:   name,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(strategies)
			}

			if len(strategies) == 0 {
				output.Info("No saved strategies. Save one with 'strategist analyze ... --save'.")
				return nil
			}

			table := NewTable(output, "ID", "NAME", "SYMBOL", "LEGS", "SPOT", "CREATED")
			for _, s := range strategies {
				symbol := s.Symbol
				if symbol == "" {
					symbol = "-"
				}
				table.AddRow(
					s.ID,
					TruncateString(s.Name, 28),
					symbol,
					strconv.Itoa(s.Legs.Len()),
					FormatPrice(s.Spot),
					FormatDate(s.CreatedAt),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().String("symbol", "", "filter by underlying symbol")
	cmd.Flags().String("name", "", "filter by name substring")
	cmd.Flags().Int("limit", 0, "maximum number of rows")
	return cmd
}

func newSavedShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved strategy and its snapshot history",
		Example: `  strategist saved show 6b1f...
  strategist saved show 6b1f... --spot 230`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			ctx := context.Background()
			saved, err := app.Store.GetStrategy(ctx, args[0])
			if err != nil {
				return err
			}

			spot, _ := cmd.Flags().GetFloat64("spot")
			if spot <= 0 {
				spot = saved.Spot
			}

			analysis, err := app.Analyzer.Analyze(saved.Legs, spot)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"strategy": saved,
					"analysis": analysis,
				})
			}

			printAnalysis(output, app, saved.Name, analysis)
			if saved.Symbol != "" || saved.Notes != "" {
				output.Println()
				if saved.Symbol != "" {
					output.Printf("  Symbol: %s\n", saved.Symbol)
				}
				if saved.Notes != "" {
					output.Printf("  Notes:  %s\n", saved.Notes)
				}
			}

			limit, _ := cmd.Flags().GetInt("snapshots")
			snapshots, err := app.Store.GetSnapshots(ctx, saved.ID, limit)
			if err != nil {
				return err
			}
			if len(snapshots) > 0 {
				output.Println()
				output.Bold("History")
				table := NewTable(output, "WHEN", "SPOT", "NET COST", "MAX PROFIT", "MAX LOSS", "BREAKEVENS")
				for _, snap := range snapshots {
					table.AddRow(
						FormatDateTime(snap.CreatedAt),
						FormatPrice(snap.Spot),
						FormatUSD(snap.NetCost),
						FormatExtremum(snap.MaxProfit),
						FormatExtremum(snap.MaxLoss),
						FormatBreakevens(snap.Breakevens),
					)
				}
				table.Render()
			}
			return nil
		},
	}
	cmd.Flags().Float64("spot", 0, "re-analyze at this spot instead of the saved one")
	cmd.Flags().Int("snapshots", 5, "number of history rows to show")
	return cmd
}

func newSavedDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved strategy and its snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := requireStore(app); err != nil {
				return err
			}

			if err := app.Store.DeleteStrategy(context.Background(), args[0]); err != nil {
				return err
			}
			output.Success("✓ Deleted strategy %s", args[0])
			return nil
		},
	}
}
