// Package storage defines the persistence contract behind the items API and
// an in-memory implementation of it.
package storage

import (
	"context"
	"errors"

	"github.com/five82/kanban/internal/board"
)

// ErrItemNotFound is returned when an id does not match a stored item.
var ErrItemNotFound = errors.New("item not found")

// Repository defines the contract for item persistence.
type Repository interface {
	// List returns every item in creation order.
	List(ctx context.Context) ([]board.Item, error)

	// Create persists a new item. The caller assigns the id.
	Create(ctx context.Context, item board.Item) error

	// Update changes the supplied fields and returns the stored item.
	Update(ctx context.Context, id string, update Update) (board.Item, error)

	// Delete removes an item.
	Delete(ctx context.Context, id string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Update lists the fields to change. Nil fields are left alone.
type Update struct {
	ListID *string
	Text   *string
}

// Empty reports whether the update changes nothing.
func (u Update) Empty() bool {
	return u.ListID == nil && u.Text == nil
}

// Apply returns item with the update's fields set.
func (u Update) Apply(item board.Item) board.Item {
	if u.ListID != nil {
		item.ListID = *u.ListID
	}
	if u.Text != nil {
		item.Text = *u.Text
	}
	return item
}
