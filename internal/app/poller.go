package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/five82/kanban/internal/state"
)

const maxBackoff = 30 * time.Second

// Loader refreshes the board from the server.
type Loader interface {
	Load(ctx context.Context) error
}

// StartPoller launches a background goroutine that reloads the board every
// interval, backing off exponentially while fetches fail. It returns a channel
// closed when the goroutine exits. A non-positive interval disables polling.
func StartPoller(ctx context.Context, loader Loader, store *state.Store, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		defer close(done)

		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := loader.Load(ctx); err != nil && ctx.Err() == nil {
				logger.Debug("poll failed", zap.Error(err))
			}

			failures := store.Snapshot().ConsecutiveFailures
			next := calculateBackoff(failures, interval)
			if failures > 0 {
				logger.Debug("poll backing off",
					zap.Int("failures", failures),
					zap.Duration("next", next),
				)
			}
			timer.Reset(next)
		}
	}()
	return done
}

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
