package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/kanban/internal/board"
)

// Snapshot represents the latest board state available to the UI.
type Snapshot struct {
	Board               board.Collection
	Loaded              bool // true once a fetch has succeeded
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive fetch failures
	Pending             int // Remote calls still in flight
	Version             uint64
}

// IsOffline returns true when the API has been unreachable for multiple fetches.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent access to the session's board. The zero value
// is usable but has no lists; use NewStore to configure them.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// NewStore returns a store holding an empty board with the given lists.
func NewStore(lists []board.List) *Store {
	return &Store{snapshot: Snapshot{Board: board.New(lists...)}}
}

// Load applies the result of a full fetch. When err is non-nil the previous
// board is kept but the error is recorded for visibility.
//
// Once the board has been loaded, a fetch that lands while remote calls are
// still pending is skipped so it cannot clobber optimistic changes the server
// has not seen yet; applied reports whether the board was replaced. Items in
// unknown lists are returned as dropped.
func (s *Store) Load(items []board.Item, err error) (applied bool, dropped []board.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		s.snapshot.Version++
		return false, nil
	}

	s.snapshot.ConsecutiveFailures = 0
	if s.snapshot.Loaded && s.snapshot.Pending > 0 {
		return false, nil
	}

	next, dropped := s.snapshot.Board.Reconcile(items)
	s.snapshot.Board = next
	s.snapshot.Loaded = true
	s.snapshot.LastError = nil
	s.snapshot.Version++
	return true, dropped
}

// Mutate applies fn to the current board. The board is replaced only when fn
// succeeds, so a failed transition leaves no partial state behind.
func (s *Store) Mutate(fn func(board.Collection) (board.Collection, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.snapshot.Board)
	if err != nil {
		return err
	}
	s.snapshot.Board = next
	s.snapshot.Version++
	return nil
}

// BeginRemote records that a remote call has started.
func (s *Store) BeginRemote() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Pending++
	s.snapshot.Version++
}

// EndRemote records that a remote call has finished. A non-nil err is kept as
// the last error; the board itself is left alone.
func (s *Store) EndRemote(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot.Pending > 0 {
		s.snapshot.Pending--
	}
	if err != nil {
		s.snapshot.LastError = err
	}
	s.snapshot.Version++
}

// Board returns the current board.
func (s *Store) Board() board.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Board
}

// Snapshot returns a copy of the current snapshot. Collections are immutable,
// so the board is shared rather than cloned.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
