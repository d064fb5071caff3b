// Package cli provides the command-line interface for the options strategy
// workbench.
package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"options-strategist/internal/catalog"
	"options-strategist/internal/logging"
	"options-strategist/internal/models"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [template]",
		Short: "Analyze a multi-leg strategy at expiry",
		Long: `Analyze a strategy built from a catalog template or explicit legs.

Reports the net debit or credit, breakevens with touch chance, max profit
and loss, and the profit/loss zones across the derived price range.`,
		Example: `  strategist analyze long-call --spot 221.09
  strategist analyze bull-call-spread --spot 225 --step 5
  strategist analyze --spot 221.09 --leg "BUY CALL 220 @37.875"
  strategist analyze --spot 225 --leg "BUY CALL 220 @13" --leg "SELL CALL 240 @6"
  strategist analyze straddle --spot 200 --save --name "Earnings straddle" --symbol ACME`,
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
			logging.LogAnalysis(logging.WithComponent(app.Logger, "cli"), strategy.Name, analysis)

			save, _ := cmd.Flags().GetBool("save")
			if output.IsJSON() {
				if save {
					if err := saveAnalysis(app, cmd, strategy, analysis, output); err != nil {
						return err
					}
				}
				return output.JSON(analysis)
			}

			printAnalysis(output, app, strategy.Name, analysis)

			if save {
				output.Println()
				if err := saveAnalysis(app, cmd, strategy, analysis, output); err != nil {
					return err
				}
			}
			return nil
		},
	}

	addStrategyFlags(cmd)
	cmd.Flags().Bool("save", false, "persist the strategy and a snapshot")
	cmd.Flags().String("name", "", "name for the saved strategy")
	cmd.Flags().String("symbol", "", "underlying symbol for the saved strategy")
	cmd.Flags().String("notes", "", "notes for the saved strategy")

	return cmd
}

// strategyInput is a resolved strategy: legs, the spot they were priced
// around, and a display name.
type strategyInput struct {
	Legs models.LegSet
	Spot float64
	Step float64
	Name string
}

// addStrategyFlags binds the flags shared by the engine commands.
func addStrategyFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("spot", 0, "current price of the underlying (required)")
	cmd.Flags().Float64("step", 0, "strike step for template strikes (default from config)")
	cmd.Flags().StringArray("leg", nil, `explicit leg, e.g. "BUY CALL 220 @37.875 x1" (repeatable)`)
}

// resolveStrategy builds the leg set from a template argument or --leg flags.
func resolveStrategy(app *App, cmd *cobra.Command, args []string) (strategyInput, error) {
	spot, _ := cmd.Flags().GetFloat64("spot")
	if spot <= 0 {
		return strategyInput{}, fmt.Errorf("spot price is required: --spot <price>")
	}

	legSpecs, _ := cmd.Flags().GetStringArray("leg")
	if len(args) > 0 && len(legSpecs) > 0 {
		return strategyInput{}, fmt.Errorf("use either a template or --leg flags, not both")
	}

	step, _ := cmd.Flags().GetFloat64("step")
	if step == 0 {
		step = app.Config.Engine.StrikeStep
	}

	if len(args) > 0 {
		tpl, err := app.Registry.Find(args[0])
		if err != nil {
			return strategyInput{}, err
		}
		legs, err := catalog.BuildLegs(tpl, spot, step, app.Pricer)
		if err != nil {
			return strategyInput{}, err
		}
		legs = applyMultiplier(legs, app.Config.Engine.Multiplier)
		return strategyInput{Legs: legs, Spot: spot, Step: step, Name: tpl.Name}, nil
	}

	if len(legSpecs) == 0 {
		return strategyInput{}, fmt.Errorf("provide a template name or at least one --leg (see 'strategist catalog list')")
	}

	legs := make([]models.Leg, 0, len(legSpecs))
	for _, spec := range legSpecs {
		leg, err := ParseLegSpec(spec)
		if err != nil {
			return strategyInput{}, err
		}
		legs = append(legs, leg)
	}
	ls, err := models.NewLegSet(legs...)
	if err != nil {
		return strategyInput{}, err
	}
	ls = applyMultiplier(ls, app.Config.Engine.Multiplier)
	return strategyInput{Legs: ls, Spot: spot, Step: step, Name: "Custom Strategy"}, nil
}

// applyMultiplier stamps a non-standard contract multiplier from config
// onto every option leg. Leg specs and templates carry no multiplier of
// their own.
func applyMultiplier(ls models.LegSet, mult int) models.LegSet {
	if mult < 1 || mult == models.DefaultMultiplier {
		return ls
	}
	legs := ls.Legs()
	for i := range legs {
		if legs[i].IsOption() {
			legs[i].Multiplier = mult
		}
	}
	out, err := models.NewLegSet(legs...)
	if err != nil {
		return ls
	}
	return out
}

// ParseLegSpec parses one --leg value.
//
// Options:  SIDE TYPE STRIKE @PRICE [xQTY]   e.g. "BUY CALL 220 @37.875 x2"
// Stock:    SIDE STOCK @ENTRY [xSHARES]      e.g. "SELL STOCK @221.09 x100"
//
// SIDE accepts BUY/SELL (or LONG/SHORT), TYPE accepts CALL/PUT/STOCK.
func ParseLegSpec(spec string) (models.Leg, error) {
	fields := strings.Fields(spec)
	if len(fields) < 3 {
		return models.Leg{}, fmt.Errorf("leg %q: want \"SIDE TYPE STRIKE @PRICE [xQTY]\"", spec)
	}

	side, err := models.ParseSide(fields[0])
	if err != nil {
		return models.Leg{}, fmt.Errorf("leg %q: %w", spec, err)
	}
	instrument, err := models.ParseInstrument(fields[1])
	if err != nil {
		return models.Leg{}, fmt.Errorf("leg %q: %w", spec, err)
	}

	var (
		strike, price         float64
		haveStrike, havePrice bool
		qty                   int
		haveQty               bool
	)

	rest := fields[2:]
	for i := 0; i < len(rest); i++ {
		tok := rest[i]
		switch {
		case tok == "@":
			if i+1 >= len(rest) {
				return models.Leg{}, fmt.Errorf("leg %q: missing price after @", spec)
			}
			if havePrice {
				return models.Leg{}, fmt.Errorf("leg %q: duplicate price", spec)
			}
			i++
			price, err = strconv.ParseFloat(rest[i], 64)
			if err != nil {
				return models.Leg{}, fmt.Errorf("leg %q: invalid price %q", spec, rest[i])
			}
			havePrice = true
		case strings.HasPrefix(tok, "@"):
			if havePrice {
				return models.Leg{}, fmt.Errorf("leg %q: duplicate price", spec)
			}
			price, err = strconv.ParseFloat(tok[1:], 64)
			if err != nil {
				return models.Leg{}, fmt.Errorf("leg %q: invalid price %q", spec, tok)
			}
			havePrice = true
		case strings.HasPrefix(tok, "x") || strings.HasPrefix(tok, "X"):
			qty, err = strconv.Atoi(tok[1:])
			if err != nil {
				return models.Leg{}, fmt.Errorf("leg %q: invalid quantity %q", spec, tok)
			}
			haveQty = true
		default:
			if haveStrike {
				return models.Leg{}, fmt.Errorf("leg %q: unexpected token %q", spec, tok)
			}
			strike, err = strconv.ParseFloat(tok, 64)
			if err != nil {
				return models.Leg{}, fmt.Errorf("leg %q: unexpected token %q", spec, tok)
			}
			haveStrike = true
		}
	}

	if !havePrice {
		return models.Leg{}, fmt.Errorf("leg %q: missing @PRICE", spec)
	}

	if instrument == models.InstrumentStock {
		if haveStrike {
			return models.Leg{}, fmt.Errorf("leg %q: stock legs take no strike", spec)
		}
		shares := models.DefaultMultiplier
		if haveQty {
			shares = qty
		}
		return models.NewStockLeg(side, price, shares), nil
	}

	if !haveStrike {
		return models.Leg{}, fmt.Errorf("leg %q: missing strike", spec)
	}
	if !haveQty {
		qty = 1
	}
	return models.NewOptionLeg(side, instrument, strike, price, qty), nil
}

// printAnalysis renders the full text report for an analysis.
func printAnalysis(output *Output, app *App, name string, a *models.Analysis) {
	output.Bold("%s", name)
	output.Println()

	table := NewTable(output, "#", "SIDE", "TYPE", "STRIKE", "PRICE", "QTY")
	for i := 0; i < a.Legs.Len(); i++ {
		leg := a.Legs.Leg(i)
		strike := "-"
		qty := leg.Shares
		price := leg.EntryPrice
		if leg.IsOption() {
			strike = FormatStrike(leg.Strike)
			qty = leg.Quantity
			price = leg.Premium
		}
		table.AddRow(
			strconv.Itoa(i+1),
			leg.Side.Verb(),
			string(leg.Instrument),
			strike,
			FormatPrice(price),
			strconv.Itoa(qty),
		)
	}
	table.Render()
	output.Println()

	costLabel := "Net Debit "
	costValue := output.Red(FormatUSD(a.NetCost))
	if a.IsCredit() {
		costLabel = "Net Credit"
		costValue = output.Green(FormatUSD(-a.NetCost))
	}

	output.Bold("Analysis")
	output.Printf("  Spot:        %s\n", FormatPrice(a.Spot))
	output.Printf("  %s:  %s\n", costLabel, costValue)
	output.Printf("  Max Profit:  %s\n", output.FormatExtremum(a.MaxProfit, +1))
	output.Printf("  Max Loss:    %s\n", output.FormatExtremum(a.MaxLoss, -1))
	if len(a.Breakevens) == 0 {
		output.Printf("  Breakevens:  none\n")
	} else {
		for _, be := range a.Breakevens {
			chance := app.Analyzer.Chance(a.Spot, be)
			output.Printf("  Breakeven:   %s  %s\n", FormatPrice(be), output.DimText("touch "+FormatChance(chance)))
		}
	}
	output.Printf("  Price Range: %s - %s\n", FormatPrice(a.Domain[0]), FormatPrice(a.Domain[1]))

	if len(a.Segments) > 1 {
		output.Println()
		output.Bold("Zones")
		for _, seg := range a.Segments {
			lo, hi := seg.Points.PriceRange()
			label := output.Red("loss  ")
			if seg.Profit {
				label = output.Green("profit")
			}
			output.Printf("  %s  %s - %s\n", label, FormatPrice(lo), FormatPrice(hi))
		}
	}
}

// saveAnalysis persists the strategy and one snapshot of its numbers.
func saveAnalysis(app *App, cmd *cobra.Command, strategy strategyInput, a *models.Analysis, output *Output) error {
	if app.Store == nil {
		return fmt.Errorf("storage is unavailable")
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = strategy.Name
	}
	symbol, _ := cmd.Flags().GetString("symbol")
	notes, _ := cmd.Flags().GetString("notes")

	ctx := context.Background()

	saved := &models.SavedStrategy{
		Name:   name,
		Symbol: symbol,
		Notes:  notes,
		Legs:   a.Legs,
		Spot:   a.Spot,
		Step:   strategy.Step,
	}
	if err := app.Store.SaveStrategy(ctx, saved); err != nil {
		return err
	}

	snapshot := &models.Snapshot{
		StrategyID: saved.ID,
		Spot:       a.Spot,
		NetCost:    a.NetCost,
		MaxProfit:  a.MaxProfit,
		MaxLoss:    a.MaxLoss,
		Breakevens: a.Breakevens,
	}
	if err := app.Store.SaveSnapshot(ctx, snapshot); err != nil {
		return err
	}

	if !output.IsJSON() {
		output.Success("✓ Saved strategy %s", saved.ID)
	}
	return nil
}
