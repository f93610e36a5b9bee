package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/five82/kanban/internal/board"
	"github.com/five82/kanban/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type countingLoader struct {
	calls atomic.Int32
	store *state.Store
	err   error
}

func (l *countingLoader) Load(context.Context) error {
	l.calls.Add(1)
	l.store.Load(nil, l.err)
	return l.err
}

func TestStartPoller_ReloadsUntilCancelled(t *testing.T) {
	store := state.NewStore(board.DefaultLists())
	loader := &countingLoader{store: store}

	ctx, cancel := context.WithCancel(context.Background())
	done := StartPoller(ctx, loader, store, 5*time.Millisecond, zaptest.NewLogger(t))

	deadline := time.Now().Add(2 * time.Second)
	for loader.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want at least 3", loader.calls.Load())
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

func TestStartPoller_BacksOffOnFailure(t *testing.T) {
	store := state.NewStore(board.DefaultLists())
	loader := &countingLoader{store: store, err: errors.New("connection refused")}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartPoller(ctx, loader, store, 20*time.Millisecond, zaptest.NewLogger(t))

	// Delays run 20ms, 40ms, 80ms, 160ms..., so 300ms allows only a handful
	// of calls where a fixed cadence would allow fifteen.
	time.Sleep(300 * time.Millisecond)
	if got := loader.calls.Load(); got < 1 || got > 5 {
		t.Fatalf("poller made %d calls in 300ms, want backoff to limit it", got)
	}
	if !store.Snapshot().IsOffline() && loader.calls.Load() >= 2 {
		t.Fatal("store not offline after repeated failures")
	}
}

func TestStartPoller_DisabledClosesImmediately(t *testing.T) {
	store := state.NewStore(board.DefaultLists())
	done := StartPoller(context.Background(), &countingLoader{store: store}, store, 0, nil)
	select {
	case <-done:
	default:
		t.Fatal("disabled poller channel not closed")
	}
}
