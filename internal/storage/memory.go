package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/five82/kanban/internal/board"
)

// Memory is a Repository that keeps items in process memory. It is used for
// development servers and tests.
type Memory struct {
	mu    sync.RWMutex
	items map[string]board.Item
	order []string
}

// Ensure Memory implements Repository at compile time.
var _ Repository = (*Memory)(nil)

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]board.Item)}
}

func (m *Memory) List(ctx context.Context) ([]board.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]board.Item, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *Memory) Create(ctx context.Context, item board.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[item.ID]; exists {
		return fmt.Errorf("create item %q: %w", item.ID, board.ErrDuplicateItem)
	}
	m.items[item.ID] = item
	m.order = append(m.order, item.ID)
	return nil
}

func (m *Memory) Update(ctx context.Context, id string, update Update) (board.Item, error) {
	if err := ctx.Err(); err != nil {
		return board.Item{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return board.Item{}, ErrItemNotFound
	}
	item = update.Apply(item)
	m.items[id] = item
	return item, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(m.items, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) Close() error {
	return nil
}
