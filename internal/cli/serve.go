package cli

import (
	"github.com/spf13/cobra"

	"github.com/five82/kanban/internal/app"
	"github.com/five82/kanban/internal/config"
)

func newServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the items HTTP server",
		Long: `Run the items HTTP server.

Settings come from the environment (and a .env file when present):
KANBAN_ADDR, DATABASE_DRIVER, DATABASE_URL, ALLOWED_LISTS, LOG_LEVEL,
LOG_FORMAT, ENABLE_METRICS, ENABLE_TRACING, OTLP_ENDPOINT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadServer()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return app.RunServer(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides KANBAN_ADDR")
	return cmd
}
