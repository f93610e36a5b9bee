// Package board models a multi-column to-do board and the reorder engine behind
// drag-and-drop.
//
// # Overview
//
// A board is a Collection of named lists (columns). Each list is an ordered
// sequence of Items. An item's position is its index in the sequence; it is not
// stored on the item. The only persisted placement is the item's ListID.
//
// # Invariants
//
//   - Every item's ListID equals the key of the list it currently sits in.
//   - Every item id appears exactly once across the whole collection.
//   - Collection values are never mutated in place. Every operation returns a new
//     Collection and leaves its receiver untouched, so callers can compare old and
//     new values or keep the old one around for undo.
//
// # Reordering
//
// Reorder moves the item at a source Location to a destination Location:
//
//	{todo: [A, B, C], done: []}
//	  Reorder({todo 0}, &{done 0})
//	{todo: [B, C], done: [A]}      A.ListID == "done"
//
// A nil destination means the interaction was cancelled; the collection comes
// back unchanged and Move.Changed is false.
//
// The destination index is the item's final index. For a move inside one list
// the item is removed first and then inserted once at that index, so indices are
// never shifted twice. Indices past the end are clamped to an append, negative
// indices to the front, and Move.Clamped reports that it happened.
//
// # Errors
//
// ErrUnknownList is returned when either list id is not part of the collection
// and ErrInvalidReference when the source location does not resolve to an item.
// Both are wrapped with context; test them with errors.Is. A failed Reorder
// never yields a partial result.
package board
