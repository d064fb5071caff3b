package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"options-strategist/internal/logging"
	"options-strategist/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis engine over HTTP",
		Long: `Run the JSON API used by dashboard frontends.

Endpoints:
  GET  /health
  GET  /api/v1/catalog
  GET  /api/v1/catalog/{id}
  POST /api/v1/catalog/{id}/analyze
  POST /api/v1/analyze
  GET  /api/v1/chance`,
		Example: `  strategist serve
  strategist serve --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			cfg := app.Config.Server
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Addr = addr
			}

			logger := logging.WithComponent(app.Logger, "api")
			handler := server.NewHandler(app.Analyzer, app.Registry, app.Pricer, app.Config.Engine.StrikeStep, logger)
			srv := server.NewServer(cfg, handler, logger)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			output.Info("Serving on %s (Ctrl-C to stop)", cfg.Addr)
			return srv.Start(ctx)
		},
	}
	cmd.Flags().String("addr", "", "listen address, overrides the configured one")
	return cmd
}
