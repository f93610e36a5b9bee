// Package cli defines the kanban command tree. With no subcommand it starts
// the terminal board; the item commands talk to the same HTTP API.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/kanban/internal/app"
	"github.com/five82/kanban/internal/config"
	"github.com/five82/kanban/internal/itemsapi"
	"github.com/five82/kanban/internal/logging"
)

// App holds the persistent flags shared by every command.
type App struct {
	ConfigPath string
	APIBind    string
	Verbose    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:           "kanban",
		Short:         "Multi-column to-do board (TUI + CLI)",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  kanban

  # Run the items server
  kanban serve

  # Scriptable commands
  kanban ls
  kanban add todo "write the release notes"
  kanban mv <id> done
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: a.ConfigPath,
				APIBind:    a.APIBind,
			})
		},
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", envOr("KANBAN_CONFIG", ""), "Path to config.toml (default ~/.config/kanban/config.toml)")
	cmd.PersistentFlags().StringVar(&a.APIBind, "api", envOr("KANBAN_API", ""), "Items API address, overrides api_bind")
	cmd.PersistentFlags().BoolVar(&a.Verbose, "verbose", false, "Log requests to stderr")

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newMoveCmd(a))
	cmd.AddCommand(newEditCmd(a))
	cmd.AddCommand(newRemoveCmd(a))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "kanban: %v\n", err)
		return 1
	}
	return 0
}

// session is what the item commands need: config, an API client and a
// stderr logger.
type session struct {
	cfg    config.Config
	client *itemsapi.Client
	logger *zap.Logger
	close  func()
}

func (a *App) open() (*session, error) {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if a.APIBind != "" {
		cfg.APIBind = a.APIBind
	}

	level := "warn"
	if a.Verbose {
		level = "debug"
	}
	logger, cleanup, err := logging.New(logging.Options{Level: level, Format: "console"})
	if err != nil {
		return nil, err
	}

	client, err := itemsapi.NewClient(cfg.APIBind, cfg.RequestTimeout)
	if err != nil {
		cleanup()
		return nil, err
	}
	logger.Debug("using items api", zap.String("base_url", client.BaseURL()))
	return &session{cfg: cfg, client: client, logger: logger, close: cleanup}, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
