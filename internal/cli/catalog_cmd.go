package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"options-strategist/internal/catalog"
	"options-strategist/internal/models"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the strategy template catalog",
	}
	cmd.AddCommand(newCatalogListCmd(app))
	cmd.AddCommand(newCatalogShowCmd(app))
	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available strategy templates",
		Example: `  strategist catalog list
  strategist catalog list --bias bullish`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			var templates []models.StrategyTemplate
			if biasFlag, _ := cmd.Flags().GetString("bias"); biasFlag != "" {
				bias, err := models.ParseBias(biasFlag)
				if err != nil {
					return err
				}
				templates = app.Registry.ListByBias(bias)
			} else {
				templates = app.Registry.List()
			}

			if output.IsJSON() {
				return output.JSON(templates)
			}

			if len(templates) == 0 {
				output.Info("No templates match.")
				return nil
			}

			table := NewTable(output, "ID", "NAME", "BIAS", "LEGS", "DESCRIPTION")
			for _, tpl := range templates {
				table.AddRow(
					tpl.ID,
					tpl.Name,
					output.BiasText(tpl.Bias),
					strconv.Itoa(len(tpl.Legs)),
					TruncateString(tpl.Description, 48),
				)
			}
			table.Render()
			output.Println()
			output.Dim("Analyze one with: strategist analyze <id> --spot <price>")
			return nil
		},
	}
	cmd.Flags().String("bias", "", "filter by directional bias (bullish, bearish, neutral)")
	return cmd
}

func newCatalogShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a template's legs, optionally resolved at a spot price",
		Example: `  strategist catalog show iron-condor
  strategist catalog show bull-call-spread --spot 225 --step 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			tpl, err := app.Registry.Find(args[0])
			if err != nil {
				return err
			}

			spot, _ := cmd.Flags().GetFloat64("spot")
			if output.IsJSON() && spot <= 0 {
				return output.JSON(tpl)
			}

			output.Bold("%s", tpl.Name)
			output.Printf("  ID:   %s\n", tpl.ID)
			output.Printf("  Bias: %s\n", output.BiasText(tpl.Bias))
			if tpl.Description != "" {
				output.Printf("  %s\n", output.DimText(tpl.Description))
			}
			output.Println()

			table := NewTable(output, "#", "SIDE", "TYPE", "STRIKE", "QTY")
			for i, leg := range tpl.Legs {
				qty := leg.Quantity
				if qty == 0 {
					qty = 1
				}
				table.AddRow(
					strconv.Itoa(i+1),
					leg.Side.Verb(),
					string(leg.Instrument),
					formatOffset(leg),
					strconv.Itoa(qty),
				)
			}
			table.Render()

			if spot <= 0 {
				output.Println()
				output.Dim("Pass --spot to resolve strikes and premiums.")
				return nil
			}

			step, _ := cmd.Flags().GetFloat64("step")
			if step == 0 {
				step = app.Config.Engine.StrikeStep
			}
			legs, err := catalog.BuildLegs(tpl, spot, step, app.Pricer)
			if err != nil {
				return err
			}
			legs = applyMultiplier(legs, app.Config.Engine.Multiplier)
			analysis, err := app.Analyzer.Analyze(legs, spot)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(analysis)
			}

			output.Println()
			printAnalysis(output, app, fmt.Sprintf("%s at spot %s", tpl.Name, FormatPrice(spot)), analysis)
			return nil
		},
	}
	cmd.Flags().Float64("spot", 0, "resolve strikes and premiums at this spot price")
	cmd.Flags().Float64("step", 0, "strike step for resolution (default from config)")
	return cmd
}

// formatOffset renders a template leg's strike position relative to ATM.
func formatOffset(leg models.TemplateLeg) string {
	if leg.Instrument == models.InstrumentStock {
		return "-"
	}
	switch {
	case leg.OffsetSteps == 0:
		return "ATM"
	case leg.OffsetSteps > 0:
		return fmt.Sprintf("ATM+%d", leg.OffsetSteps)
	default:
		return fmt.Sprintf("ATM%d", leg.OffsetSteps)
	}
}
