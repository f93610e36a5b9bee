package board

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TempIDPrefix marks ids assigned locally before the server has stored the item.
const TempIDPrefix = "tmp-"

// Item is a single to-do entry.
type Item struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	ListID string `json:"listId"`
}

// List describes one column of the board.
type List struct {
	ID    string `toml:"id" json:"id"`
	Title string `toml:"title" json:"title"`
}

// Label returns the title, falling back to the id.
func (l List) Label() string {
	if t := strings.TrimSpace(l.Title); t != "" {
		return t
	}
	return l.ID
}

// Location addresses a slot in a list.
type Location struct {
	ListID string
	Index  int
}

func (l Location) String() string {
	return fmt.Sprintf("%s[%d]", l.ListID, l.Index)
}

// DefaultLists returns the three columns a new board starts with.
func DefaultLists() []List {
	return []List{
		{ID: "todo", Title: "To Do"},
		{ID: "inProgress", Title: "In Progress"},
		{ID: "done", Title: "Done"},
	}
}

// NewTempID returns a local placeholder id for an item that is not stored yet.
func NewTempID() string {
	return TempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id was produced by NewTempID.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// NormalizeText trims item text and rejects empty values.
func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyText
	}
	return trimmed, nil
}
