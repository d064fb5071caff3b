package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"options-strategist/internal/models"
	"options-strategist/internal/payoff"
)

func newAtCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "at <price> [template]",
		Short: "P&L if the underlying expires at a price",
		Long: `Evaluate the exact profit or loss of a strategy at one expiry price,
with the chance of the underlying touching that price from spot.`,
		Example: `  strategist at 260 long-call --spot 221.09
  strategist at 230 --spot 225 --leg "BUY CALL 220 @13" --leg "SELL CALL 240 @6"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			price, err := strconv.ParseFloat(args[0], 64)
			if err != nil || price <= 0 {
				return fmt.Errorf("invalid price %q", args[0])
			}

			strategy, err := resolveStrategy(app, cmd, args[1:])
			if err != nil {
				return err
			}

			readout := models.Readout{
				Price:  price,
				PnL:    payoff.Evaluate(strategy.Legs, price),
				Chance: app.Analyzer.Chance(strategy.Spot, price),
			}

			if output.IsJSON() {
				return output.JSON(readout)
			}

			output.Bold("%s at %s", strategy.Name, FormatPrice(price))
			output.Printf("  P&L:    %s\n", output.FormatPnL(readout.PnL))
			output.Printf("  Chance: %s %s\n", FormatChance(readout.Chance),
				output.DimText("of touching from "+FormatPrice(strategy.Spot)))
			return nil
		},
	}

	addStrategyFlags(cmd)
	return cmd
}
