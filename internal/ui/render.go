package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kanban/internal/board"
)

// renderMain renders header, command bar and the board or log view.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	if m.showLogs {
		b.WriteString(m.renderLogs())
	} else {
		b.WriteString(m.renderBoard())
	}
	return b.String()
}

// columnWidths splits the terminal width across n columns; the last column
// takes the remainder.
func columnWidths(total, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	each := max(total/n, MinColumnWidth)
	for i := range widths {
		widths[i] = each
	}
	if rest := total - each*n; rest > 0 {
		widths[n-1] += rest
	}
	return widths
}

// renderBoard renders every list side by side.
func (m Model) renderBoard() string {
	contentHeight := m.height - HeaderLines
	lists := m.lists()
	if len(lists) == 0 {
		msg := m.theme.Styles().MutedText.Render("No lists configured")
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	widths := columnWidths(m.width, len(lists))
	panes := make([]string, len(lists))
	for i, l := range lists {
		panes[i] = m.renderColumn(i, l, widths[i], contentHeight)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

func (m Model) renderColumn(idx int, list board.List, width, height int) string {
	focused := idx == m.col
	bgColor := m.theme.SurfaceAlt
	if focused {
		bgColor = m.theme.FocusBg
	}
	innerWidth := width - 2
	boxInner := max(height-2, 0)

	rows := m.dragRows(list.ID)
	selected := -1
	if focused && m.drag == nil && len(rows) > 0 {
		selected = m.rows[list.ID]
	}
	if m.drag != nil && m.drag.dst.ListID == list.ID {
		for i, r := range rows {
			if r.placeholder {
				selected = i
				break
			}
		}
	}

	// Scroll so the selected row stays visible.
	offset := 0
	if selected >= boxInner && boxInner > 0 {
		offset = selected - boxInner + 1
	}

	var lines []string
	if len(rows) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Faint)).
			Background(lipgloss.Color(bgColor)).
			Width(innerWidth).
			Render(" (empty)"))
	}
	for i := offset; i < len(rows) && i-offset < boxInner; i++ {
		lines = append(lines, m.renderItemRow(rows[i], innerWidth, bgColor, i == selected))
	}

	title := fmt.Sprintf("%s (%d)", list.Label(), m.snapshot.Board.Len(list.ID))
	return m.renderTitledBox(title, m.theme.ListColor(idx), strings.Join(lines, "\n"), width, height, focused)
}

// renderItemRow formats one item line: "▌ text *" where the trailing marker
// flags items the server has not stored yet.
func (m Model) renderItemRow(row dragRow, width int, bgColor string, selected bool) string {
	styles := m.theme.Styles()
	rowBg := bgColor
	textStyle := styles.Text
	marker := "  "

	switch {
	case row.placeholder:
		textStyle = styles.Placeholder
		marker = "▶ "
	case row.ghost:
		textStyle = styles.Ghost
	case selected:
		rowBg = m.theme.SelectionBg
		textStyle = styles.Selected
		marker = "▌ "
	}

	bg := NewBgStyle(rowBg)
	suffix := ""
	if board.IsTempID(row.item.ID) {
		suffix = " *"
	}
	textWidth := max(width-len([]rune(marker))-len(suffix), 1)

	line := bg.Render(marker, styles.AccentText) +
		bg.Render(truncate(singleLine(row.item.Text), textWidth), textStyle)
	if suffix != "" {
		line += bg.Render(suffix, styles.WarningText)
	}
	return bg.FillLine(line, width)
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Matches the frame style: ┌─── Title ───┐
func (m Model) renderTitledBox(title, titleColor, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(titleColor))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	if len(paddedLines) == 0 {
		return topBorder + "\n" + bottomBorder
	}
	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
