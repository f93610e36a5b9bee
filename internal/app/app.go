package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/kanban/internal/config"
	"github.com/five82/kanban/internal/itemsapi"
	"github.com/five82/kanban/internal/logging"
	"github.com/five82/kanban/internal/prefs"
	"github.com/five82/kanban/internal/state"
	"github.com/five82/kanban/internal/syncer"
	"github.com/five82/kanban/internal/ui"
)

// Options configure the terminal board.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/kanban/prefs.toml
	APIBind    string // overrides the config file when set
}

const initialLoadTimeout = 5 * time.Second

// Run boots the terminal board until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIBind != "" {
		cfg.APIBind = opts.APIBind
	}

	// stdout belongs to the terminal UI, so logs go to a file.
	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: "json",
		Path:   cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()

	client, err := itemsapi.NewClient(cfg.APIBind, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init items client: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := state.NewStore(cfg.Lists)
	boardSync := syncer.New(ctx, client, store, logger)

	logger.Info("starting board",
		zap.String("api", client.BaseURL()),
		zap.Strings("lists", cfg.ListIDs()),
		zap.Duration("poll_interval", cfg.PollInterval),
	)

	// Populate the store before the UI starts; an unreachable server is
	// shown in the header rather than treated as fatal.
	loadCtx, loadCancel := context.WithTimeout(ctx, initialLoadTimeout)
	if err := boardSync.Load(loadCtx); err != nil {
		logger.Warn("initial load failed", zap.Error(err))
	}
	loadCancel()

	pollerDone := StartPoller(ctx, boardSync, store, cfg.PollInterval, logger)

	runErr := ui.Run(ui.Options{
		Context:   ctx,
		Syncer:    boardSync,
		Logger:    logger,
		APIBind:   client.BaseURL(),
		ThemeName: userPrefs.Theme,
		FocusList: userPrefs.FocusList,
		PrefsPath: opts.PrefsPath,
		LogFile:   cfg.LogFile,
	})

	cancel()
	<-pollerDone
	boardSync.Wait()
	logger.Info("board closed", zap.Int("pending_at_exit", store.Snapshot().Pending))
	return runErr
}
