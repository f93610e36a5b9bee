package board

import "errors"

var (
	// ErrInvalidReference reports a location or id that does not resolve to an item.
	ErrInvalidReference = errors.New("invalid item reference")

	// ErrUnknownList reports a list id that is not a key of the collection.
	ErrUnknownList = errors.New("unknown list")

	// ErrDuplicateItem reports an insert whose id is already on the board.
	ErrDuplicateItem = errors.New("duplicate item id")

	// ErrEmptyText reports an item without any text.
	ErrEmptyText = errors.New("item text cannot be empty")
)
