package cli

import (
	"math"
	"strings"

	"github.com/spf13/cobra"

	"options-strategist/internal/models"
	"options-strategist/internal/payoff"
)

func newChartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart [template]",
		Short: "Draw the expiry payoff diagram",
		Long: `Draw an ASCII payoff diagram for a strategy.

The curve is colored green where the position profits and red where it
loses. Breakevens are marked on the zero axis and a dotted line marks
the current spot.`,
		Example: `  strategist chart long-call --spot 221.09
  strategist chart --spot 225 --leg "BUY CALL 220 @13" --leg "SELL CALL 240 @6"
  strategist chart iron-condor --spot 450 --width 100 --height 25`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			strategy, err := resolveStrategy(app, cmd, args)
			if err != nil {
				return err
			}

			analysis, err := app.Analyzer.Analyze(strategy.Legs, strategy.Spot)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(analysis)
			}

			width, _ := cmd.Flags().GetInt("width")
			if width <= 0 {
				width = app.Config.Chart.Width
			}
			height, _ := cmd.Flags().GetInt("height")
			if height <= 0 {
				height = app.Config.Chart.Height
			}

			output.Bold("%s", strategy.Name)
			output.Println()
			renderChart(output, analysis, width, height)
			output.Println()

			legend := "spot " + FormatPrice(analysis.Spot)
			for _, be := range analysis.Breakevens {
				chance := app.Analyzer.Chance(analysis.Spot, be)
				legend += "   " + output.Yellow("○") + " breakeven " + FormatPrice(be) +
					" " + output.DimText("(touch "+FormatChance(chance)+")")
			}
			output.Printf("  %s\n", legend)
			return nil
		},
	}

	addStrategyFlags(cmd)
	cmd.Flags().Int("width", 0, "chart width in columns (default from config)")
	cmd.Flags().Int("height", 0, "chart height in rows (default from config)")

	return cmd
}

// renderChart draws the payoff curve across the analysis domain.
func renderChart(output *Output, a *models.Analysis, width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 5 {
		height = 5
	}

	lo, hi := a.Domain[0], a.Domain[1]
	priceAt := func(col int) float64 {
		return lo + (hi-lo)*float64(col)/float64(width-1)
	}
	colAt := func(price float64) int {
		col := int(math.Round((price - lo) / (hi - lo) * float64(width-1)))
		if col < 0 {
			col = 0
		}
		if col > width-1 {
			col = width - 1
		}
		return col
	}

	// Exact per-column values; the curve is piecewise linear so sampling
	// the column prices directly loses nothing.
	pnls := make([]float64, width)
	minPnL, maxPnL := math.Inf(1), math.Inf(-1)
	for c := 0; c < width; c++ {
		p := payoff.Evaluate(a.Legs, priceAt(c))
		pnls[c] = p
		minPnL = math.Min(minPnL, p)
		maxPnL = math.Max(maxPnL, p)
	}
	// Keep the zero axis on screen.
	minPnL = math.Min(minPnL, 0)
	maxPnL = math.Max(maxPnL, 0)
	if maxPnL == minPnL {
		maxPnL++
	}

	rowAt := func(pnl float64) int {
		row := int(math.Round((maxPnL - pnl) / (maxPnL - minPnL) * float64(height-1)))
		if row < 0 {
			row = 0
		}
		if row > height-1 {
			row = height - 1
		}
		return row
	}

	zeroRow := rowAt(0)
	spotCol := colAt(a.Spot)
	curveRow := make([]int, width)
	for c := 0; c < width; c++ {
		curveRow[c] = rowAt(pnls[c])
	}
	beCols := make(map[int]bool, len(a.Breakevens))
	for _, be := range a.Breakevens {
		beCols[colAt(be)] = true
	}

	labels := map[int]string{
		0:       FormatUSD(maxPnL),
		zeroRow: FormatUSD(0),
	}
	if height-1 != zeroRow {
		labels[height-1] = FormatUSD(minPnL)
	}
	labelWidth := 0
	for _, l := range labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}

	for r := 0; r < height; r++ {
		var line strings.Builder
		line.WriteString(PadLeft(labels[r], labelWidth))
		switch {
		case r == zeroRow:
			line.WriteString(" ┼")
		case labels[r] != "":
			line.WriteString(" ┤")
		default:
			line.WriteString(" │")
		}
		for c := 0; c < width; c++ {
			line.WriteString(chartCell(output, r, curveRow[c], pnls[c], zeroRow, c == spotCol, beCols[c]))
		}
		output.Println(line.String())
	}

	// Price scale under the x axis.
	axisLabels := []string{FormatPrice(lo), FormatPrice(priceAt(width / 2)), FormatPrice(hi)}
	gap := width - len(axisLabels[0]) - len(axisLabels[1]) - len(axisLabels[2])
	left := gap / 2
	if left < 1 {
		left = 1
	}
	right := gap - left
	if right < 1 {
		right = 1
	}
	output.Dim("%s %s%s%s%s%s",
		PadLeft("", labelWidth+1),
		axisLabels[0], strings.Repeat(" ", left),
		axisLabels[1], strings.Repeat(" ", right),
		axisLabels[2])
}

// chartCell picks and colors the character for one grid cell.
func chartCell(output *Output, row, curveAt int, pnl float64, zeroRow int, atSpot, atBreakeven bool) string {
	if row == zeroRow && atBreakeven {
		return output.Yellow("○")
	}
	if row == curveAt {
		switch {
		case pnl > 0:
			return output.Green("●")
		case pnl < 0:
			return output.Red("●")
		default:
			return "●"
		}
	}
	if row == zeroRow {
		return output.DimText("─")
	}
	if atSpot {
		return output.DimText("·")
	}
	return " "
}
