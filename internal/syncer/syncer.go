package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/kanban/internal/board"
	"github.com/five82/kanban/internal/itemsapi"
	"github.com/five82/kanban/internal/state"
)

// ErrNothingToUndo is returned by Undo when no move has been recorded.
var ErrNothingToUndo = errors.New("nothing to undo")

// errNotCreated marks calls against an item whose create never succeeded.
var errNotCreated = errors.New("item was never stored on the server")

const maxUndo = 50

// Syncer applies board changes locally first and mirrors them to the server
// in the background.
type Syncer struct {
	ctx    context.Context
	remote itemsapi.Remote
	store  *state.Store
	logger *zap.Logger
	wg     sync.WaitGroup

	mu      sync.Mutex
	tails   map[string]chan struct{} // last queued call per item
	created map[string]string        // temp id -> server id
	aliases map[string]string        // server id -> temp id
	undo    []board.Move
}

// New returns a Syncer. Background calls run until ctx is cancelled.
func New(ctx context.Context, remote itemsapi.Remote, store *state.Store, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		ctx:     ctx,
		remote:  remote,
		store:   store,
		logger:  logger,
		tails:   make(map[string]chan struct{}),
		created: make(map[string]string),
		aliases: make(map[string]string),
	}
}

// Store returns the state container the syncer writes to.
func (s *Syncer) Store() *state.Store {
	return s.store
}

// Load fetches every item and hands the result to the store. Fetch errors are
// recorded on the store and returned.
func (s *Syncer) Load(ctx context.Context) error {
	start := time.Now()
	items, err := s.remote.ListAll(ctx)
	applied, dropped := s.store.Load(items, err)
	if err != nil {
		s.logger.Warn("fetch items failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return err
	}
	for _, it := range dropped {
		s.logger.Warn("dropping item in unknown list",
			zap.String("item_id", it.ID),
			zap.String("list_id", it.ListID),
		)
	}
	s.logger.Debug("fetched items",
		zap.Int("count", len(items)),
		zap.Bool("applied", applied),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// Add appends a new item to listID immediately, under a temporary id, and
// creates it on the server in the background. The temporary id is swapped for
// the server's id once the create succeeds.
func (s *Syncer) Add(text, listID string) (board.Item, error) {
	text, err := board.NormalizeText(text)
	if err != nil {
		return board.Item{}, err
	}
	item := board.Item{ID: board.NewTempID(), Text: text, ListID: listID}
	if err := s.store.Mutate(func(c board.Collection) (board.Collection, error) {
		return c.Append(item)
	}); err != nil {
		return board.Item{}, err
	}

	tempID := item.ID
	s.dispatch("create", tempID, func(ctx context.Context) error {
		created, err := s.remote.CreateItem(ctx, text, listID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.created[tempID] = created.ID
		s.aliases[created.ID] = tempID
		s.mu.Unlock()

		if err := s.store.Mutate(func(c board.Collection) (board.Collection, error) {
			return c.Rename(tempID, created.ID)
		}); err != nil {
			s.logger.Debug("temporary item gone before rename",
				zap.String("item_id", tempID),
				zap.String("server_id", created.ID),
				zap.Error(err),
			)
		}
		return nil
	})
	return item, nil
}

// Move runs the reorder engine against the current board. A nil dst cancels
// the interaction and leaves everything unchanged. Only a change of list is
// sent to the server; order inside a list is local to the session.
func (s *Syncer) Move(src board.Location, dst *board.Location) (board.Move, error) {
	mv, err := s.apply(func(c board.Collection) (board.Move, error) {
		return c.Reorder(src, dst)
	})
	if err != nil || !mv.Changed {
		return mv, err
	}
	s.pushUndo(mv)
	return mv, nil
}

// MoveItem moves the item with the given id. It behaves like Move.
func (s *Syncer) MoveItem(id string, dst board.Location) (board.Move, error) {
	id = s.currentID(id)
	mv, err := s.apply(func(c board.Collection) (board.Move, error) {
		return c.MoveItem(id, dst)
	})
	if err != nil || !mv.Changed {
		return mv, err
	}
	s.pushUndo(mv)
	return mv, nil
}

// Undo reverts the most recent move and syncs the reversal.
func (s *Syncer) Undo() (board.Move, error) {
	s.mu.Lock()
	if len(s.undo) == 0 {
		s.mu.Unlock()
		return board.Move{}, ErrNothingToUndo
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.mu.Unlock()

	id, back := last.Inverse()
	id = s.currentID(id)
	return s.apply(func(c board.Collection) (board.Move, error) {
		return c.MoveItem(id, back)
	})
}

// CanUndo reports whether Undo has a move to revert.
func (s *Syncer) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// Edit replaces the text of an item.
func (s *Syncer) Edit(id, text string) (board.Item, error) {
	text, err := board.NormalizeText(text)
	if err != nil {
		return board.Item{}, err
	}
	id = s.currentID(id)

	var (
		edited  board.Item
		changed bool
	)
	err = s.store.Mutate(func(c board.Collection) (board.Collection, error) {
		loc, ok := c.Find(id)
		if !ok {
			return c, fmt.Errorf("%w: %q", board.ErrInvalidReference, id)
		}
		current, err := c.At(loc)
		if err != nil {
			return c, err
		}
		if current.Text == text {
			edited = current
			return c, nil
		}
		next, item, err := c.SetText(id, text)
		edited, changed = item, true
		return next, err
	})
	if err != nil || !changed {
		return edited, err
	}

	s.dispatch("edit", id, func(ctx context.Context) error {
		serverID, err := s.serverID(id)
		if err != nil {
			return err
		}
		return s.remote.UpdateItem(ctx, serverID, itemsapi.TextPatch(text))
	})
	return edited, nil
}

// Delete removes an item.
func (s *Syncer) Delete(id string) (board.Item, error) {
	id = s.currentID(id)

	var removed board.Item
	err := s.store.Mutate(func(c board.Collection) (board.Collection, error) {
		next, item, err := c.Remove(id)
		removed = item
		return next, err
	})
	if err != nil {
		return board.Item{}, err
	}

	s.dispatch("delete", id, func(ctx context.Context) error {
		serverID, err := s.serverID(id)
		if err != nil {
			return err
		}
		return s.remote.DeleteItem(ctx, serverID)
	})
	return removed, nil
}

// Wait blocks until every background call has finished.
func (s *Syncer) Wait() {
	s.wg.Wait()
}

// apply runs a move under the store lock and syncs a change of list.
func (s *Syncer) apply(fn func(board.Collection) (board.Move, error)) (board.Move, error) {
	var mv board.Move
	err := s.store.Mutate(func(c board.Collection) (board.Collection, error) {
		m, err := fn(c)
		if err != nil {
			return c, err
		}
		mv = m
		return m.Collection, nil
	})
	if err != nil {
		return board.Move{}, err
	}
	if !mv.CrossList() {
		return mv, nil
	}

	id, listID := mv.Item.ID, mv.To.ListID
	s.dispatch("move", id, func(ctx context.Context) error {
		serverID, err := s.serverID(id)
		if err != nil {
			return err
		}
		return s.remote.UpdateItem(ctx, serverID, itemsapi.ListPatch(listID))
	})
	return mv, nil
}

func (s *Syncer) pushUndo(mv board.Move) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = append(s.undo, mv)
	if len(s.undo) > maxUndo {
		s.undo = s.undo[len(s.undo)-maxUndo:]
	}
}

// dispatch runs fn in the background. Calls for the same item run in the order
// they were dispatched, so a create always lands before the calls that depend
// on it.
func (s *Syncer) dispatch(op, id string, fn func(ctx context.Context) error) {
	s.mu.Lock()
	key := id
	if tempID, ok := s.aliases[id]; ok {
		key = tempID
	}
	prev := s.tails[key]
	done := make(chan struct{})
	s.tails[key] = done
	s.mu.Unlock()

	s.store.BeginRemote()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release(key, done)

		if prev != nil {
			select {
			case <-prev:
			case <-s.ctx.Done():
			}
		}

		start := time.Now()
		err := fn(s.ctx)
		fields := []zap.Field{
			zap.String("op", op),
			zap.String("item_id", id),
			zap.Duration("duration", time.Since(start)),
		}
		switch {
		case errors.Is(err, errNotCreated):
			s.store.EndRemote(nil)
			s.logger.Info("skipping remote call", append(fields, zap.Error(err))...)
		case err != nil:
			s.store.EndRemote(err)
			s.logger.Warn("remote call failed", append(fields, zap.Error(err))...)
		default:
			s.store.EndRemote(nil)
			s.logger.Debug("remote call finished", fields...)
		}
	}()
}

func (s *Syncer) release(key string, done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(done)
	if s.tails[key] == done {
		delete(s.tails, key)
	}
}

// serverID maps a temporary id to the id the server assigned to it.
func (s *Syncer) serverID(id string) (string, error) {
	if !board.IsTempID(id) {
		return id, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if real, ok := s.created[id]; ok {
		return real, nil
	}
	return "", fmt.Errorf("%w: %s", errNotCreated, id)
}

// currentID returns the id an item has on the board now, following a rename
// from a temporary id when one has happened.
func (s *Syncer) currentID(id string) string {
	if !board.IsTempID(id) {
		return id
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if real, ok := s.created[id]; ok {
		return real
	}
	return id
}
