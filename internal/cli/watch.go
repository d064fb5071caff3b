package cli

import (
	"context"
	"math"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"options-strategist/internal/models"
	"options-strategist/internal/notify"
	"options-strategist/internal/payoff"
	"options-strategist/internal/quote"
	"options-strategist/internal/stream"
)

func newWatchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [template]",
		Short: "Watch live P&L as the underlying moves",
		Long: `Stream spot updates and print the strategy's P&L on every tick.

Updates come from a simulated random walk starting at --spot. The full
analysis is printed once; each tick then shows the mark, the P&L at that
price and the chance of touching the nearest breakeven. Alert lines fire
when the mark approaches or crosses a breakeven or strike.`,
		Example: `  strategist watch long-call --spot 221.09
  strategist watch straddle --spot 200 --interval 500ms --volatility 0.005
  strategist watch --spot 225 --leg "BUY CALL 220 @13" --count 20 --seed 42`,
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

			symbol, _ := cmd.Flags().GetString("symbol")
			interval, _ := cmd.Flags().GetDuration("interval")
			volatility, _ := cmd.Flags().GetFloat64("volatility")
			seed, _ := cmd.Flags().GetInt64("seed")
			count, _ := cmd.Flags().GetInt("count")
			approach, _ := cmd.Flags().GetFloat64("approach")
			notifyURL, _ := cmd.Flags().GetString("notify-url")

			source := quote.NewRandomWalkWithConfig(quote.RandomWalkConfig{
				Interval:   interval,
				Volatility: volatility,
				Seed:       seed,
				Prices:     map[string]float64{symbol: strategy.Spot},
			})
			hub := stream.NewHubWithSource(source)

			colorOK := output.ColorEnabled() && app.Config.UI.ColorEnabled
			terminal := notify.NewTerminalNotifier(cmd.OutOrStdout(), colorOK)
			terminal.SetBell(colorOK)
			var notifier notify.Notifier = terminal
			if notifyURL != "" {
				notifier = notify.NewMultiNotifier(notify.FilterAll,
					terminal, notify.NewWebhookNotifier(notifyURL))
			}

			monitor := stream.NewLevelMonitorWithConfig(notifier, stream.LevelMonitorConfig{
				ApproachPercent: approach,
				NotifyOnce:      true,
			})
			monitor.Watch(symbol, strategy.Name, analysis)
			hub.RegisterConsumer(monitor)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			updates := hub.Subscribe(symbol)
			if err := hub.Start(ctx); err != nil {
				return err
			}
			defer hub.Stop()

			printAnalysis(output, app, strategy.Name, analysis)
			output.Println()
			output.Bold("Watching %s (Ctrl-C to stop)", symbol)

			seen := 0
			for {
				select {
				case <-ctx.Done():
					output.Println()
					output.Info("Stopped.")
					return nil
				case update, ok := <-updates:
					if !ok {
						return nil
					}
					printTick(output, app, analysis, update.Price, update.Timestamp)
					seen++
					if count > 0 && seen >= count {
						return nil
					}
				}
			}
		},
	}

	addStrategyFlags(cmd)
	cmd.Flags().String("symbol", "DEMO", "symbol label for the simulated feed")
	cmd.Flags().Duration("interval", time.Second, "time between ticks")
	cmd.Flags().Float64("volatility", 0.002, "per-tick fractional move scale")
	cmd.Flags().Int64("seed", 0, "random seed, 0 seeds from the clock")
	cmd.Flags().Int("count", 0, "stop after this many ticks, 0 runs until interrupted")
	cmd.Flags().Float64("approach", 0.5, "percent distance that counts as approaching a level")
	cmd.Flags().String("notify-url", "", "also POST level alerts to this webhook URL")

	return cmd
}

// printTick prints one line of the live readout.
func printTick(output *Output, app *App, analysis *models.Analysis, price float64, ts time.Time) {
	pnl := payoff.Evaluate(analysis.Legs, price)

	// Pad before coloring so ANSI codes do not skew the columns.
	line := FormatTime(ts) + "  " + PadLeft(FormatPrice(price), 10) + "  " +
		output.ColoredString(output.PnLColor(pnl), PadLeft(FormatPnL(pnl), 12))
	if be, ok := nearestBreakeven(analysis.Breakevens, price); ok {
		chance := app.Analyzer.Chance(price, be)
		line += "  " + output.DimText("BE "+FormatPrice(be)+" touch "+FormatChance(chance))
	}
	output.Println(line)
}

// nearestBreakeven returns the breakeven closest to price.
func nearestBreakeven(breakevens []float64, price float64) (float64, bool) {
	if len(breakevens) == 0 {
		return 0, false
	}
	best := breakevens[0]
	for _, be := range breakevens[1:] {
		if math.Abs(be-price) < math.Abs(best-price) {
			best = be
		}
	}
	return best, true
}
