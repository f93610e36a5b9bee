package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/kanban/internal/logtail"
)

// logLinesMsg carries the result of reading the log file.
type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

func (m Model) readLogsCmd() tea.Cmd {
	path := m.logFile
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		if err != nil {
			return logLinesMsg{err: err}
		}
		return logLinesMsg{entries: logtail.ParseLines(lines)}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logReadAt = time.Now()
	if msg.err != nil {
		m.setFlash("read logs: "+msg.err.Error(), true)
		return
	}

	// Stay pinned to the bottom unless the user scrolled up.
	follow := m.logViewport.AtBottom() || len(m.logEntries) == 0
	m.logEntries = msg.entries
	m.logViewport.SetContent(m.formatLogContent())
	if follow {
		m.logViewport.GotoBottom()
	}
}

func (m *Model) resizeLogViewport() {
	width := max(m.width-2, 1)
	height := max(m.height-HeaderLines-2, 1)
	if m.logViewport.Width == 0 && m.logViewport.Height == 0 {
		m.logViewport = viewport.New(width, height)
		return
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Logs):
		m.showLogs = false
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.logViewport.SetContent(m.formatLogContent())
		m.savePrefs()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	}
	return m, nil
}

func (m Model) formatLogContent() string {
	if len(m.logEntries) == 0 {
		return m.theme.Styles().FaintText.Render("No log lines yet")
	}
	lines := make([]string, 0, len(m.logEntries))
	for _, e := range m.logEntries {
		lines = append(lines, m.formatLogEntry(e))
	}
	return strings.Join(lines, "\n")
}

// formatLogEntry renders "15:04:05 LEVEL message key=value ...".
func (m Model) formatLogEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	if !e.Structured() {
		return styles.Text.Render(e.Raw)
	}

	levelStyle := styles.InfoText
	switch e.Level {
	case "DEBUG":
		levelStyle = styles.FaintText
	case "WARN":
		levelStyle = styles.WarningText
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		levelStyle = styles.DangerText
	}

	parts := make([]string, 0, 3+len(e.Fields))
	if !e.Time.IsZero() {
		parts = append(parts, styles.MutedText.Render(e.Time.In(time.Local).Format("15:04:05")))
	}
	parts = append(parts,
		levelStyle.Render(padRight(e.Level, 5)),
		styles.Text.Render(e.Message),
	)
	for _, f := range e.Fields {
		parts = append(parts, styles.FaintText.Render(f.Key+"=")+styles.MutedText.Render(f.Value))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderLogs() string {
	height := m.height - HeaderLines
	title := "Logs"
	if m.logFile != "" {
		title += " · " + truncateMiddle(m.logFile, max(m.width/2, 10))
	}
	if m.logFile == "" {
		msg := m.theme.Styles().MutedText.Render("No log file configured")
		return m.renderTitledBox(title, m.theme.Accent, lipgloss.Place(m.width-2, height-2, lipgloss.Center, lipgloss.Center, msg), m.width, height, true)
	}
	return m.renderTitledBox(title, m.theme.Accent, m.logViewport.View(), m.width, height, true)
}
