package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kanban/internal/board"
)

// dragState tracks a keyboard drag. The item is held by id so a board refresh
// during the drag cannot point the drop at a different item.
type dragState struct {
	itemID string
	src    board.Location
	dst    board.Location
}

func (m *Model) startDrag() {
	loc, ok := m.selectedLoc()
	if !ok {
		return
	}
	item, err := m.snapshot.Board.At(loc)
	if err != nil {
		return
	}
	m.drag = &dragState{itemID: item.ID, src: loc, dst: loc}
}

// dropRange returns the largest index the drop target may take in listID.
// Inside the source list the item's own slot disappears first.
func (m Model) dropRange(listID string) int {
	n := m.snapshot.Board.Len(listID)
	if m.drag != nil && listID == m.drag.src.ListID {
		return max(n-1, 0)
	}
	return n
}

func (m Model) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.drag
	lists := m.lists()
	col := m.snapshot.Board.ListIndex(d.dst.ListID)

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.cancelDrag()
		return m, nil

	case key.Matches(msg, m.keys.Drop):
		m.drop()
		return m, nil

	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.MoveLeft):
		if col > 0 {
			d.dst.ListID = lists[col-1].ID
		}

	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.MoveRight):
		if col >= 0 && col < len(lists)-1 {
			d.dst.ListID = lists[col+1].ID
		}

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.MoveUp):
		d.dst.Index--

	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.MoveDown):
		d.dst.Index++

	case key.Matches(msg, m.keys.Top):
		d.dst.Index = 0

	case key.Matches(msg, m.keys.Bottom):
		d.dst.Index = m.dropRange(d.dst.ListID)
	}

	d.dst.Index = min(max(d.dst.Index, 0), m.dropRange(d.dst.ListID))
	if idx := m.snapshot.Board.ListIndex(d.dst.ListID); idx >= 0 {
		m.col = idx
	}
	return m, nil
}

// drop completes the drag at the current target.
func (m *Model) drop() {
	d := m.drag
	m.drag = nil
	m.applyMove(d.itemID, d.dst)
}

// cancelDrag abandons the drag. The move is still routed through the engine
// with no destination, which leaves the board untouched.
func (m *Model) cancelDrag() {
	d := m.drag
	m.drag = nil
	m.refresh()
	if src, ok := m.snapshot.Board.Find(d.itemID); ok {
		m.finishMove(m.sync.Move(src, nil))
		m.focus(src)
	}
	m.setFlash("move cancelled", false)
}

// dragRow describes one rendered row of a column during a drag.
type dragRow struct {
	item        board.Item
	placeholder bool
	ghost       bool
}

// dragRows lays out the items of listID with the drop placeholder inserted
// and the dragged item marked at its source slot.
func (m Model) dragRows(listID string) []dragRow {
	items := m.snapshot.Board.Items(listID)
	rows := make([]dragRow, 0, len(items)+1)
	for _, it := range items {
		rows = append(rows, dragRow{item: it, ghost: m.drag != nil && it.ID == m.drag.itemID})
	}
	if m.drag == nil || m.drag.dst.ListID != listID {
		return rows
	}

	// The target index counts positions with the dragged item removed, so
	// the visual slot shifts by one past the source in the same list.
	pos := m.drag.dst.Index
	if listID == m.drag.src.ListID && pos >= m.drag.src.Index {
		pos++
	}
	pos = min(max(pos, 0), len(rows))

	var dragged board.Item
	if loc, ok := m.snapshot.Board.Find(m.drag.itemID); ok {
		dragged, _ = m.snapshot.Board.At(loc)
	}
	rows = append(rows, dragRow{})
	copy(rows[pos+1:], rows[pos:])
	rows[pos] = dragRow{item: dragged, placeholder: true}
	return rows
}
