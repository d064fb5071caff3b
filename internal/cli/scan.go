package cli

import (
	"fmt"
	"math"
	"runtime"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"options-strategist/internal/catalog"
	"options-strategist/internal/models"
)

// scanRow is one template analyzed at the scanned spot.
type scanRow struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Bias       models.Bias     `json:"bias"`
	NetCost    float64         `json:"netCost"`
	MaxProfit  models.Extremum `json:"maxProfit"`
	MaxLoss    models.Extremum `json:"maxLoss"`
	Breakevens []float64       `json:"breakevens"`
}

func newScanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Analyze every catalog template at one spot price",
		Long: `Build and analyze all catalog templates at a spot price.

Premiums come from the synthetic pricing model, so the table compares
strategy shapes rather than live market quotes. Sort by cost to surface
credit strategies, by profit or loss to rank the extremes.`,
		Example: `  strategist scan --spot 221.09
  strategist scan --spot 225 --bias neutral --sort cost
  strategist scan --spot 225 --sort profit --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			spot, _ := cmd.Flags().GetFloat64("spot")
			if spot <= 0 {
				return fmt.Errorf("spot price is required: --spot <price>")
			}
			step, _ := cmd.Flags().GetFloat64("step")
			if step == 0 {
				step = app.Config.Engine.StrikeStep
			}

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
			if len(templates) == 0 {
				output.Info("No templates match.")
				return nil
			}

			rows := make([]scanRow, len(templates))
			g := new(errgroup.Group)
			g.SetLimit(runtime.NumCPU())
			for i, tpl := range templates {
				g.Go(func() error {
					legs, err := catalog.BuildLegs(tpl, spot, step, app.Pricer)
					if err != nil {
						return fmt.Errorf("%s: %w", tpl.ID, err)
					}
					legs = applyMultiplier(legs, app.Config.Engine.Multiplier)
					analysis, err := app.Analyzer.Analyze(legs, spot)
					if err != nil {
						return fmt.Errorf("%s: %w", tpl.ID, err)
					}
					rows[i] = scanRow{
						ID:         tpl.ID,
						Name:       tpl.Name,
						Bias:       tpl.Bias,
						NetCost:    analysis.NetCost,
						MaxProfit:  analysis.MaxProfit,
						MaxLoss:    analysis.MaxLoss,
						Breakevens: analysis.Breakevens,
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			sortKey, _ := cmd.Flags().GetString("sort")
			if err := sortScanRows(rows, sortKey); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(rows)
			}

			output.Bold("Catalog at spot %s", FormatPrice(spot))
			output.Println()
			table := NewTable(output, "ID", "BIAS", "COST", "MAX PROFIT", "MAX LOSS", "BREAKEVENS")
			for _, row := range rows {
				cost := FormatUSD(row.NetCost) + " dr"
				if row.NetCost < 0 {
					cost = FormatUSD(-row.NetCost) + " cr"
				}
				table.AddRow(
					row.ID,
					output.BiasText(row.Bias),
					cost,
					FormatExtremum(row.MaxProfit),
					FormatExtremum(row.MaxLoss),
					FormatBreakevens(row.Breakevens),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Float64("spot", 0, "current price of the underlying (required)")
	cmd.Flags().Float64("step", 0, "strike step for template strikes (default from config)")
	cmd.Flags().String("bias", "", "only scan templates with this bias")
	cmd.Flags().String("sort", "", "sort by cost, profit or loss (default catalog order)")

	return cmd
}

// sortScanRows orders rows by the chosen column. Cost ascends so credits
// lead, profit descends with unbounded first, loss ascends with unbounded
// last.
func sortScanRows(rows []scanRow, key string) error {
	switch key {
	case "":
		return nil
	case "cost":
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].NetCost < rows[j].NetCost })
	case "profit":
		sort.SliceStable(rows, func(i, j int) bool {
			return extremumOrd(rows[i].MaxProfit) > extremumOrd(rows[j].MaxProfit)
		})
	case "loss":
		sort.SliceStable(rows, func(i, j int) bool {
			return extremumOrd(rows[i].MaxLoss) < extremumOrd(rows[j].MaxLoss)
		})
	default:
		return fmt.Errorf("unknown sort %q: want cost, profit or loss", key)
	}
	return nil
}

// extremumOrd maps an extremum onto a sortable value.
func extremumOrd(e models.Extremum) float64 {
	if e.Unbounded {
		return math.Inf(1)
	}
	return e.Value
}
