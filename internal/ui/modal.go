package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kanban/internal/board"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

type formMode int

const (
	formAdd formMode = iota
	formEdit
)

// formSubmitMsg carries the result of an add or edit form.
type formSubmitMsg struct {
	mode   formMode
	itemID string // edit only
	listID string // add only
	text   string
}

// deleteConfirmedMsg is sent when the user confirms a delete.
type deleteConfirmedMsg struct{ id string }

const formWidth = 50

// formModal edits item text. In add mode tab cycles the target list.
type formModal struct {
	mode      formMode
	input     textinput.Model
	lists     []board.List
	listIdx   int
	itemID    string
	listLabel string
	err       string
}

func newTextInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 500
	ti.Width = formWidth - 8
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return ti
}

func newAddForm(lists []board.List, col int) *formModal {
	if col < 0 || col >= len(lists) {
		col = 0
	}
	return &formModal{
		mode:    formAdd,
		input:   newTextInput(""),
		lists:   lists,
		listIdx: col,
	}
}

func newEditForm(item board.Item, listLabel string) *formModal {
	return &formModal{
		mode:      formEdit,
		input:     newTextInput(item.Text),
		itemID:    item.ID,
		listLabel: listLabel,
	}
}

func (f *formModal) listID() string {
	if f.listIdx < 0 || f.listIdx >= len(f.lists) {
		return ""
	}
	return f.lists[f.listIdx].ID
}

func (f *formModal) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Escape):
		return f, nil, true

	case key.Matches(msg, keys.Confirm):
		text, err := board.NormalizeText(f.input.Value())
		if err != nil {
			f.err = "text is required"
			return f, nil, false
		}
		submit := formSubmitMsg{mode: f.mode, itemID: f.itemID, listID: f.listID(), text: text}
		return f, func() tea.Msg { return submit }, true

	case f.mode == formAdd && key.Matches(msg, keys.NextList):
		if len(f.lists) > 0 {
			f.listIdx = (f.listIdx + 1) % len(f.lists)
		}
		return f, nil, false
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	f.err = ""
	return f, cmd, false
}

func (f *formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	if f.mode == formAdd {
		b.WriteString(styles.Text.Bold(true).Render("New item"))
		b.WriteString("\n\n")
		b.WriteString(styles.MutedText.Render("List: "))
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ListColor(f.listIdx))).
			Bold(true).
			Render(f.lists[f.listIdx].Label()))
		b.WriteString(styles.FaintText.Render("  (tab to change)"))
	} else {
		b.WriteString(styles.Text.Bold(true).Render("Edit item"))
		b.WriteString("\n\n")
		b.WriteString(styles.MutedText.Render("List: " + f.listLabel))
	}
	b.WriteString("\n\n")
	b.WriteString(f.input.View())
	b.WriteString("\n\n")
	if f.err != "" {
		b.WriteString(styles.DangerText.Render(f.err))
	} else {
		b.WriteString(styles.FaintText.Render("enter save · esc cancel"))
	}
	return renderModalBox(theme, b.String(), width, height)
}

// confirmModal asks before deleting an item.
type confirmModal struct {
	itemID string
	text   string
}

func newConfirmDelete(item board.Item) *confirmModal {
	return &confirmModal{itemID: item.ID, text: item.Text}
}

func (c *confirmModal) Update(msg tea.KeyMsg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Yes):
		id := c.itemID
		return c, func() tea.Msg { return deleteConfirmedMsg{id: id} }, true
	case key.Matches(msg, keys.No):
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	content := styles.DangerText.Bold(true).Render("Delete item?") + "\n\n" +
		styles.Text.Render(fmt.Sprintf("%q", truncate(singleLine(c.text), formWidth-10))) + "\n\n" +
		styles.AccentText.Render("y") + styles.MutedText.Render(" delete  ") +
		styles.AccentText.Render("n") + styles.MutedText.Render(" keep")
	return renderModalBox(theme, content, width, height)
}

func renderModalBox(theme Theme, content string, width, height int) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(formWidth).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
