package board

import "fmt"

// Collection is an ordered set of lists, each holding an ordered sequence of
// items. The zero value is an empty board with no lists.
//
// Collection has value semantics: methods that change the board return a new
// Collection. Unchanged lists share their backing arrays between the old and
// new value, which is safe because sequences are never written after creation.
type Collection struct {
	lists []List
	items map[string][]Item
}

// New returns an empty board with the given lists in display order. Later
// duplicates of a list id are ignored.
func New(lists ...List) Collection {
	c := Collection{
		lists: make([]List, 0, len(lists)),
		items: make(map[string][]Item, len(lists)),
	}
	for _, l := range lists {
		if _, ok := c.items[l.ID]; ok {
			continue
		}
		c.lists = append(c.lists, l)
		c.items[l.ID] = nil
	}
	return c
}

// FromItems builds a board from a full fetch, keeping the fetch order inside
// each list. Items whose list is unknown, or whose id was already seen, are
// returned as dropped.
func FromItems(lists []List, items []Item) (Collection, []Item) {
	c := New(lists...)
	seen := make(map[string]struct{}, len(items))
	var dropped []Item
	for _, it := range items {
		if _, ok := c.items[it.ListID]; !ok {
			dropped = append(dropped, it)
			continue
		}
		if _, dup := seen[it.ID]; dup {
			dropped = append(dropped, it)
			continue
		}
		seen[it.ID] = struct{}{}
		c.items[it.ListID] = append(c.items[it.ListID], it)
	}
	return c, dropped
}

// Lists returns the list definitions in display order.
func (c Collection) Lists() []List {
	out := make([]List, len(c.lists))
	copy(out, c.lists)
	return out
}

// List returns the definition for listID.
func (c Collection) List(listID string) (List, bool) {
	for _, l := range c.lists {
		if l.ID == listID {
			return l, true
		}
	}
	return List{}, false
}

// ListIndex returns the display position of listID, or -1.
func (c Collection) ListIndex(listID string) int {
	for i, l := range c.lists {
		if l.ID == listID {
			return i
		}
	}
	return -1
}

// Has reports whether listID is a key of the board.
func (c Collection) Has(listID string) bool {
	_, ok := c.items[listID]
	return ok
}

// Items returns a copy of the sequence for listID.
func (c Collection) Items(listID string) []Item {
	return cloneItems(c.items[listID])
}

// Len returns the number of items in listID.
func (c Collection) Len(listID string) int {
	return len(c.items[listID])
}

// Total returns the number of items on the board.
func (c Collection) Total() int {
	n := 0
	for _, seq := range c.items {
		n += len(seq)
	}
	return n
}

// IDs returns every item id in display order.
func (c Collection) IDs() []string {
	ids := make([]string, 0, c.Total())
	for _, l := range c.lists {
		for _, it := range c.items[l.ID] {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

// At returns the item stored at loc.
func (c Collection) At(loc Location) (Item, error) {
	seq, ok := c.items[loc.ListID]
	if !ok {
		return Item{}, fmt.Errorf("%w: %q", ErrUnknownList, loc.ListID)
	}
	if loc.Index < 0 || loc.Index >= len(seq) {
		return Item{}, fmt.Errorf("%w: %s is out of range (list has %d items)", ErrInvalidReference, loc, len(seq))
	}
	return seq[loc.Index], nil
}

// Find returns the location of the item with the given id.
func (c Collection) Find(id string) (Location, bool) {
	for _, l := range c.lists {
		for i, it := range c.items[l.ID] {
			if it.ID == id {
				return Location{ListID: l.ID, Index: i}, true
			}
		}
	}
	return Location{}, false
}

// Equal reports whether both boards have the same lists and the same items in
// the same order.
func (c Collection) Equal(other Collection) bool {
	if len(c.lists) != len(other.lists) {
		return false
	}
	for i, l := range c.lists {
		if other.lists[i] != l {
			return false
		}
		a, b := c.items[l.ID], other.items[l.ID]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// Insert places item at index in its list. The index is clamped to the list
// bounds, so any index past the end appends.
func (c Collection) Insert(item Item, index int) (Collection, error) {
	seq, ok := c.items[item.ListID]
	if !ok {
		return c, fmt.Errorf("%w: %q", ErrUnknownList, item.ListID)
	}
	if item.ID == "" {
		return c, fmt.Errorf("%w: empty id", ErrInvalidReference)
	}
	if _, exists := c.Find(item.ID); exists {
		return c, fmt.Errorf("%w: %q", ErrDuplicateItem, item.ID)
	}
	idx, _ := clampIndex(index, len(seq))
	return c.with(item.ListID, insertAt(seq, idx, item)), nil
}

// Append places item at the end of its list.
func (c Collection) Append(item Item) (Collection, error) {
	return c.Insert(item, c.Len(item.ListID))
}

// Remove deletes the item with the given id and returns it.
func (c Collection) Remove(id string) (Collection, Item, error) {
	loc, ok := c.Find(id)
	if !ok {
		return c, Item{}, fmt.Errorf("%w: %q", ErrInvalidReference, id)
	}
	seq := c.items[loc.ListID]
	removed := seq[loc.Index]
	return c.with(loc.ListID, removeAt(seq, loc.Index)), removed, nil
}

// SetText replaces the text of the item with the given id.
func (c Collection) SetText(id, text string) (Collection, Item, error) {
	loc, ok := c.Find(id)
	if !ok {
		return c, Item{}, fmt.Errorf("%w: %q", ErrInvalidReference, id)
	}
	seq := cloneItems(c.items[loc.ListID])
	seq[loc.Index].Text = text
	return c.with(loc.ListID, seq), seq[loc.Index], nil
}

// Rename swaps an item's id in place, keeping its position. It is used to
// replace a temporary id once the server has assigned the real one.
func (c Collection) Rename(oldID, newID string) (Collection, error) {
	if oldID == newID {
		return c, nil
	}
	loc, ok := c.Find(oldID)
	if !ok {
		return c, fmt.Errorf("%w: %q", ErrInvalidReference, oldID)
	}
	if _, exists := c.Find(newID); exists {
		return c, fmt.Errorf("%w: %q", ErrDuplicateItem, newID)
	}
	seq := cloneItems(c.items[loc.ListID])
	seq[loc.Index].ID = newID
	return c.with(loc.ListID, seq), nil
}

// Reconcile rebuilds the board from a fresh fetch. Items the server still
// reports in the same list keep their local order and take the server's text.
// Items the server no longer has are dropped, except those still holding a
// temporary id, which the server cannot know about yet. Items new to this
// board are appended in fetch order. Fetched items in unknown lists are
// returned as dropped.
func (c Collection) Reconcile(remote []Item) (Collection, []Item) {
	fresh, dropped := FromItems(c.lists, remote)

	byID := make(map[string]Item, len(remote))
	for _, l := range fresh.lists {
		for _, it := range fresh.items[l.ID] {
			byID[it.ID] = it
		}
	}

	out := New(c.lists...)
	placed := make(map[string]struct{}, len(byID))
	for _, l := range c.lists {
		var seq []Item
		for _, local := range c.items[l.ID] {
			if IsTempID(local.ID) {
				seq = append(seq, local)
				continue
			}
			r, ok := byID[local.ID]
			if !ok || r.ListID != l.ID {
				continue
			}
			seq = append(seq, r)
			placed[r.ID] = struct{}{}
		}
		out.items[l.ID] = seq
	}
	for _, l := range fresh.lists {
		for _, r := range fresh.items[l.ID] {
			if _, ok := placed[r.ID]; ok {
				continue
			}
			out.items[l.ID] = append(out.items[l.ID], r)
		}
	}
	return out, dropped
}

// with returns a copy of c whose listID sequence is replaced by seq.
func (c Collection) with(listID string, seq []Item) Collection {
	items := make(map[string][]Item, len(c.items))
	for k, v := range c.items {
		items[k] = v
	}
	items[listID] = seq
	return Collection{lists: c.lists, items: items}
}

func cloneItems(seq []Item) []Item {
	if len(seq) == 0 {
		return nil
	}
	out := make([]Item, len(seq))
	copy(out, seq)
	return out
}

func insertAt(seq []Item, index int, item Item) []Item {
	out := make([]Item, 0, len(seq)+1)
	out = append(out, seq[:index]...)
	out = append(out, item)
	return append(out, seq[index:]...)
}

func removeAt(seq []Item, index int) []Item {
	out := make([]Item, 0, len(seq)-1)
	out = append(out, seq[:index]...)
	return append(out, seq[index+1:]...)
}

// clampIndex bounds index to [0, max] and reports whether it had to.
func clampIndex(index, max int) (int, bool) {
	switch {
	case index < 0:
		return 0, true
	case index > max:
		return max, true
	default:
		return index, false
	}
}
