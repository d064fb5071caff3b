package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// addHelpCommands adds help and documentation commands.
func addHelpCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCommandsCmd(app))
	rootCmd.AddCommand(newExamplesCmd(app))
	rootCmd.AddCommand(newQuickstartCmd(app))
}

func newCommandsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List all commands by category",
		Long:  "Display all available commands organized by category.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Options Strategist Commands")
			output.Println()

			categories := []struct {
				name     string
				commands []struct {
					cmd  string
					desc string
				}
			}{
				{
					name: "Analysis",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"analyze [template]", "Full expiry analysis of a strategy"},
						{"chart [template]", "ASCII payoff diagram"},
						{"at <price> [template]", "P&L at one expiry price"},
					},
				},
				{
					name: "Catalog",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"catalog list", "List strategy templates"},
						{"catalog show <id>", "Template detail, optionally resolved"},
					},
				},
				{
					name: "Saved Strategies",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"saved list", "List saved strategies"},
						{"saved show <id>", "Re-analyze a saved strategy"},
						{"saved delete <id>", "Delete a saved strategy"},
					},
				},
				{
					name: "Live",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"watch [template]", "Stream per-tick P&L"},
						{"serve", "JSON API for dashboards"},
					},
				},
				{
					name: "Utilities",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"config show/path/validate/edit", "Configuration"},
						{"version", "Version information"},
					},
				},
				{
					name: "Help",
					commands: []struct {
						cmd  string
						desc string
					}{
						{"help <command>", "Detailed help"},
						{"commands", "List all commands"},
						{"examples", "Common workflows"},
						{"quickstart", "New user guide"},
					},
				},
			}

			for _, cat := range categories {
				output.Bold(cat.name)
				for _, c := range cat.commands {
					output.Printf("  %-34s %s\n", output.Cyan(c.cmd), c.desc)
				}
				output.Println()
			}

			output.Dim("Use 'strategist help <command>' for detailed help on any command")

			return nil
		},
	}
}

func newExamplesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "Show common workflow examples",
		Long:  "Display examples of common analysis workflows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Common Workflow Examples")
			output.Println()

			examples := []struct {
				title    string
				commands []string
			}{
				{
					title: "Analyze a Template",
					commands: []string{
						"strategist catalog list                  # Browse templates",
						"strategist catalog show iron-condor      # Inspect the legs",
						"strategist analyze iron-condor --spot 450    # Full analysis",
						"strategist chart iron-condor --spot 450      # Payoff diagram",
					},
				},
				{
					title: "Analyze Explicit Legs",
					commands: []string{
						"strategist analyze --spot 221.09 --leg \"BUY CALL 220 @37.875\"",
						"strategist analyze --spot 225 --leg \"BUY CALL 220 @13\" --leg \"SELL CALL 240 @6\"",
						"strategist at 230 --spot 225 --leg \"BUY CALL 220 @13\" --leg \"SELL CALL 240 @6\"",
					},
				},
				{
					title: "Covered Call",
					commands: []string{
						"strategist analyze --spot 221.09 --leg \"BUY STOCK @221.09 x100\" --leg \"SELL CALL 240 @6\"",
					},
				},
				{
					title: "Save and Revisit",
					commands: []string{
						"strategist analyze straddle --spot 200 --save --name \"Earnings\" --symbol ACME",
						"strategist saved list                    # Find the ID",
						"strategist saved show <id> --spot 212    # Re-analyze later",
					},
				},
				{
					title: "Watch the P&L Move",
					commands: []string{
						"strategist watch long-call --spot 221.09",
						"strategist watch straddle --spot 200 --interval 500ms --count 30",
					},
				},
				{
					title: "Serve the API",
					commands: []string{
						"strategist serve                         # Default :8087",
						"curl localhost:8087/api/v1/catalog",
						"curl -X POST localhost:8087/api/v1/catalog/long-call/analyze -d '{\"spot\":221.09}'",
					},
				},
				{
					title: "Script with JSON",
					commands: []string{
						"strategist analyze long-call --spot 221.09 --json | jq .breakevens",
						"strategist catalog list --json | jq '.[].id'",
					},
				},
			}

			for _, ex := range examples {
				output.Bold(ex.title)
				for _, c := range ex.commands {
					parts := strings.SplitN(c, "#", 2)
					if len(parts) == 2 {
						output.Printf("  %s %s\n", output.Cyan(strings.TrimSpace(parts[0])), output.DimText(strings.TrimSpace(parts[1])))
					} else {
						output.Printf("  %s\n", output.Cyan(c))
					}
				}
				output.Println()
			}

			return nil
		},
	}
}

func newQuickstartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quickstart",
		Short: "New user guide",
		Long:  "Step-by-step guide for new users.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			output.Bold("Options Strategist - Quick Start Guide")
			output.Println()

			steps := []struct {
				step  int
				title string
				desc  string
				cmd   string
			}{
				{
					step:  1,
					title: "Browse the Catalog",
					desc:  "See the built-in strategy templates and their bias.",
					cmd:   "strategist catalog list",
				},
				{
					step:  2,
					title: "Run Your First Analysis",
					desc:  "Analyze a long call with the underlying at 221.09.",
					cmd:   "strategist analyze long-call --spot 221.09",
				},
				{
					step:  3,
					title: "Draw the Payoff",
					desc:  "Visualize where the strategy profits and loses.",
					cmd:   "strategist chart long-call --spot 221.09",
				},
				{
					step:  4,
					title: "Build Custom Legs",
					desc:  "Describe each leg explicitly instead of using a template.",
					cmd:   "strategist analyze --spot 225 --leg \"BUY CALL 220 @13\" --leg \"SELL CALL 240 @6\"",
				},
				{
					step:  5,
					title: "Check a Target Price",
					desc:  "What happens if the underlying expires at 230?",
					cmd:   "strategist at 230 --spot 225 --leg \"BUY CALL 220 @13\" --leg \"SELL CALL 240 @6\"",
				},
				{
					step:  6,
					title: "Save It",
					desc:  "Keep the strategy and a snapshot for later.",
					cmd:   "strategist analyze bull-call-spread --spot 225 --save --symbol ACME",
				},
				{
					step:  7,
					title: "Watch It Live",
					desc:  "Stream simulated ticks and the P&L at each mark.",
					cmd:   "strategist watch bull-call-spread --spot 225",
				},
				{
					step:  8,
					title: "Serve Dashboards",
					desc:  "Expose the engine as a JSON API.",
					cmd:   "strategist serve",
				},
			}

			for _, s := range steps {
				output.Printf("%s Step %d: %s\n", output.Cyan("→"), s.step, output.BoldText(s.title))
				output.Printf("  %s\n", s.desc)
				output.Printf("  %s\n\n", output.DimText(s.cmd))
			}

			output.Bold("Configuration")
			output.Println()
			output.Printf("  %s - engine, chart, server and storage settings\n", output.Cyan("config.toml"))
			output.Printf("  %s - shows where the config lives\n", output.Cyan("strategist config path"))
			output.Printf("  %s - extra templates (catalog.template_files)\n", output.Cyan("templates/*.yaml"))
			output.Println()

			output.Bold("Getting Help")
			output.Println()
			output.Printf("  %s - List all commands\n", output.Cyan("strategist commands"))
			output.Printf("  %s - Common workflows\n", output.Cyan("strategist examples"))
			output.Printf("  %s - Help for any command\n", output.Cyan("strategist help <command>"))

			return nil
		},
	}
}
