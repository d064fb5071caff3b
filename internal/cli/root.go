// Package cli provides the command-line interface for the options strategy
// workbench.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"options-strategist/internal/catalog"
	"options-strategist/internal/config"
	"options-strategist/internal/logging"
	"options-strategist/internal/payoff"
	"options-strategist/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-08-25"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.DataStore
	Registry *catalog.Registry
	Analyzer *payoff.Analyzer
	Pricer   catalog.Pricer
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: catalog.NewBuiltinRegistry(),
		Pricer:   catalog.NewSyntheticPricer(),
	}

	app.Analyzer = payoff.NewAnalyzerWithConfig(payoff.AnalyzerConfig{
		Samples:      cfg.Engine.Samples,
		SpanFactor:   cfg.Engine.DomainSpan,
		MarginFactor: cfg.Engine.StrikeMargin,
		ChanceWindow: cfg.Engine.ChanceWindow,
	})

	// Load extra strategy templates from config
	for _, path := range cfg.Catalog.TemplateFiles {
		count, err := app.Registry.LoadFile(path)
		logging.LogTemplateLoad(logger, path, count, err)
	}

	// Initialize SQLite store
	dataStore, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, saved strategies unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Storage.Path).Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "strategist",
		Short: "Options Strategist - multi-leg payoff and risk analytics CLI",
		Long: `Options Strategist analyzes multi-leg option strategies at expiry.

Build strategies from the template catalog or from explicit legs; get payoff
curves, breakevens, max profit/loss and touch-chance readouts. Charts render
from the sampled curve, and the same engine serves a JSON API for dashboards.

Use 'strategist help <command>' for more information about a command.
Use 'strategist examples' to see common workflows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/strategist)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addAnalysisCommands(rootCmd, app)
	addCatalogCommands(rootCmd, app)
	addStoreCommands(rootCmd, app)
	addStreamCommands(rootCmd, app)
	addServerCommands(rootCmd, app)
	addHelpCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

// addAnalysisCommands adds the engine-driven commands.
func addAnalysisCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newChartCmd(app))
	rootCmd.AddCommand(newAtCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
}

// addCatalogCommands adds template catalog commands.
func addCatalogCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCatalogCmd(app))
}

// addStoreCommands adds saved strategy commands.
func addStoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSavedCmd(app))
}

// addStreamCommands adds live monitoring commands.
func addStreamCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newWatchCmd(app))
}

// addServerCommands adds the API server command.
func addServerCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newServeCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Options Strategist v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.Config.Dir})
			} else {
				output.Println(app.Config.Dir)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "edit",
		Short: "Open configuration file in editor",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			output.Info("Configuration file: %s", app.Config.ConfigFilePath())
			output.Println("Edit this file to change settings.")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Engine Configuration")
	output.Printf("  Samples:        %d\n", cfg.Engine.Samples)
	output.Printf("  Domain Span:    %.2f\n", cfg.Engine.DomainSpan)
	output.Printf("  Strike Margin:  %.2f\n", cfg.Engine.StrikeMargin)
	output.Printf("  Chance Window:  %.2f\n", cfg.Engine.ChanceWindow)
	output.Printf("  Strike Step:    %.2f\n", cfg.Engine.StrikeStep)
	output.Printf("  Multiplier:     %d\n", cfg.Engine.Multiplier)
	output.Println()

	output.Bold("Chart Configuration")
	output.Printf("  Width:          %d\n", cfg.Chart.Width)
	output.Printf("  Height:         %d\n", cfg.Chart.Height)
	output.Println()

	output.Bold("Catalog Configuration")
	if len(cfg.Catalog.TemplateFiles) == 0 {
		output.Printf("  Template Files: (none)\n")
	}
	for _, path := range cfg.Catalog.TemplateFiles {
		output.Printf("  Template File:  %s\n", path)
	}
	output.Println()

	output.Bold("Server Configuration")
	output.Printf("  Address:        %s\n", cfg.Server.Addr)
	output.Printf("  CORS Origins:   %v\n", cfg.Server.CORSOrigins)
	output.Printf("  Request Timeout: %s\n", cfg.Server.RequestTimeout)
	output.Println()

	output.Bold("Storage")
	output.Printf("  Database:       %s\n", cfg.Storage.Path)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:          %s\n", cfg.Log.Level)
	output.Printf("  Console:        %v\n", cfg.Log.Console)
	output.Printf("  File:           %v\n", cfg.Log.File)

	return nil
}
