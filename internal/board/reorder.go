package board

import "fmt"

// Move is the result of a reorder.
type Move struct {
	// Collection is the board after the move. When Changed is false it is the
	// receiver itself.
	Collection Collection

	// Item is the moved item with its ListID already updated.
	Item Item

	From Location
	To   Location

	// Changed is false for cancelled drags and drops onto the item's own slot.
	Changed bool

	// Clamped reports that the destination index was outside the list.
	Clamped bool
}

// CrossList reports whether the item changed lists.
func (m Move) CrossList() bool {
	return m.Changed && m.From.ListID != m.To.ListID
}

// Inverse returns the id and destination that put the item back where it was.
func (m Move) Inverse() (string, Location) {
	return m.Item.ID, m.From
}

// Reorder moves the item at src to dst. A nil dst cancels the interaction and
// returns the receiver unchanged.
//
// dst.Index is the final index of the item. Within one list it is clamped to
// [0, len-1]; across lists to [0, len] of the destination list.
func (c Collection) Reorder(src Location, dst *Location) (Move, error) {
	if dst == nil {
		return Move{Collection: c, From: src, To: src}, nil
	}
	if !c.Has(src.ListID) {
		return Move{}, fmt.Errorf("%w: source %q", ErrUnknownList, src.ListID)
	}
	if !c.Has(dst.ListID) {
		return Move{}, fmt.Errorf("%w: destination %q", ErrUnknownList, dst.ListID)
	}

	source := c.items[src.ListID]
	if src.Index < 0 || src.Index >= len(source) {
		return Move{}, fmt.Errorf("%w: source %s is out of range (list has %d items)", ErrInvalidReference, src, len(source))
	}
	item := source[src.Index]

	if src.ListID == dst.ListID {
		idx, clamped := clampIndex(dst.Index, len(source)-1)
		to := Location{ListID: src.ListID, Index: idx}
		if idx == src.Index {
			return Move{Collection: c, Item: item, From: src, To: to, Clamped: clamped}, nil
		}
		seq := insertAt(removeAt(source, src.Index), idx, item)
		return Move{
			Collection: c.with(src.ListID, seq),
			Item:       item,
			From:       src,
			To:         to,
			Changed:    true,
			Clamped:    clamped,
		}, nil
	}

	target := c.items[dst.ListID]
	idx, clamped := clampIndex(dst.Index, len(target))
	item.ListID = dst.ListID
	next := c.with(src.ListID, removeAt(source, src.Index)).
		with(dst.ListID, insertAt(target, idx, item))
	return Move{
		Collection: next,
		Item:       item,
		From:       src,
		To:         Location{ListID: dst.ListID, Index: idx},
		Changed:    true,
		Clamped:    clamped,
	}, nil
}

// MoveItem moves the item with the given id to dst.
func (c Collection) MoveItem(id string, dst Location) (Move, error) {
	src, ok := c.Find(id)
	if !ok {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidReference, id)
	}
	return c.Reorder(src, &dst)
}
