package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/kanban/internal/board"
)

func (m Model) lists() []board.List {
	return m.snapshot.Board.Lists()
}

func (m Model) focusedList() (board.List, bool) {
	lists := m.lists()
	if m.col < 0 || m.col >= len(lists) {
		return board.List{}, false
	}
	return lists[m.col], true
}

// selectedLoc returns the location of the selected item in the focused list.
func (m Model) selectedLoc() (board.Location, bool) {
	list, ok := m.focusedList()
	if !ok || m.snapshot.Board.Len(list.ID) == 0 {
		return board.Location{}, false
	}
	return board.Location{ListID: list.ID, Index: m.rows[list.ID]}, true
}

func (m Model) selectedItem() (board.Item, bool) {
	loc, ok := m.selectedLoc()
	if !ok {
		return board.Item{}, false
	}
	item, err := m.snapshot.Board.At(loc)
	return item, err == nil
}

// clampSelection keeps the focused column and every row inside the board.
func (m *Model) clampSelection() {
	lists := m.lists()
	if len(lists) == 0 {
		m.col = 0
		return
	}
	m.col = min(max(m.col, 0), len(lists)-1)
	for _, l := range lists {
		n := m.snapshot.Board.Len(l.ID)
		m.rows[l.ID] = min(max(m.rows[l.ID], 0), max(n-1, 0))
	}
}

// focus moves the selection to loc.
func (m *Model) focus(loc board.Location) {
	if idx := m.snapshot.Board.ListIndex(loc.ListID); idx >= 0 {
		m.col = idx
		m.rows[loc.ListID] = loc.Index
	}
	m.clampSelection()
}

func (m Model) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list, hasList := m.focusedList()

	switch {
	case key.Matches(msg, m.keys.Left):
		m.col = max(m.col-1, 0)

	case key.Matches(msg, m.keys.Right):
		m.col = min(m.col+1, max(len(m.lists())-1, 0))

	case key.Matches(msg, m.keys.Up):
		if hasList {
			m.rows[list.ID] = max(m.rows[list.ID]-1, 0)
		}

	case key.Matches(msg, m.keys.Down):
		if hasList {
			m.rows[list.ID] = min(m.rows[list.ID]+1, max(m.snapshot.Board.Len(list.ID)-1, 0))
		}

	case key.Matches(msg, m.keys.Top):
		if hasList {
			m.rows[list.ID] = 0
		}

	case key.Matches(msg, m.keys.Bottom):
		if hasList {
			m.rows[list.ID] = max(m.snapshot.Board.Len(list.ID)-1, 0)
		}

	case key.Matches(msg, m.keys.Grab):
		m.startDrag()

	case key.Matches(msg, m.keys.MoveLeft):
		m.quickMove(-1, 0)

	case key.Matches(msg, m.keys.MoveRight):
		m.quickMove(1, 0)

	case key.Matches(msg, m.keys.MoveUp):
		m.quickMove(0, -1)

	case key.Matches(msg, m.keys.MoveDown):
		m.quickMove(0, 1)

	case key.Matches(msg, m.keys.Undo):
		mv, err := m.sync.Undo()
		if err != nil {
			m.reportError("undo", err)
			return m, nil
		}
		m.refresh()
		m.focus(mv.To)
		m.setFlash(fmt.Sprintf("undid move, back to %s #%d", m.listLabel(mv.To.ListID), mv.To.Index+1), false)

	case key.Matches(msg, m.keys.Add):
		if hasList {
			m.modal = newAddForm(m.lists(), m.col)
		}

	case key.Matches(msg, m.keys.Edit):
		if item, ok := m.selectedItem(); ok {
			m.modal = newEditForm(item, m.listLabel(item.ListID))
		}

	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selectedItem(); ok {
			m.modal = newConfirmDelete(item)
		}
	}

	return m, nil
}

// quickMove shifts the selected item by dCol lists or dRow positions in one
// step. Moving to another list keeps the row, clamped by the engine.
func (m *Model) quickMove(dCol, dRow int) {
	item, ok := m.selectedItem()
	if !ok {
		return
	}
	m.refresh()
	src, ok := m.snapshot.Board.Find(item.ID)
	if !ok {
		m.setFlash("move: item no longer on the board", true)
		return
	}
	lists := m.lists()
	col := m.snapshot.Board.ListIndex(src.ListID) + dCol
	if col < 0 || col >= len(lists) {
		return
	}
	dst := board.Location{ListID: lists[col].ID, Index: src.Index + dRow}
	if dRow != 0 && dst.Index < 0 {
		return
	}
	m.applyMove(item.ID, dst)
}

// applyMove moves the item with the given id through the syncer and follows
// it with the selection. The item is looked up on the live board, not on the
// snapshot the view was drawn from.
func (m *Model) applyMove(id string, dst board.Location) {
	mv, err := m.sync.MoveItem(id, dst)
	if errors.Is(err, board.ErrInvalidReference) {
		m.refresh()
		m.setFlash("move: item no longer on the board", true)
		return
	}
	m.finishMove(mv, err)
}

func (m *Model) finishMove(mv board.Move, err error) {
	if err != nil {
		m.reportError("move", err)
		return
	}
	m.refresh()
	if !mv.Changed {
		return
	}
	m.focus(mv.To)

	text := fmt.Sprintf("moved to %s #%d", m.listLabel(mv.To.ListID), mv.To.Index+1)
	if mv.Clamped {
		text += " (end of list)"
	}
	m.setFlash(text, false)
}
