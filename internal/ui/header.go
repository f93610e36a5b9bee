package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	snap := m.snapshot
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("kanban", styles.Logo)}

	switch {
	case !snap.Loaded && snap.LastError != nil:
		last := "soon"
		if !snap.LastUpdated.IsZero() {
			last = snap.LastUpdated.Format("15:04:05")
		}
		parts = append(parts,
			bg.Render("API "+classifyConnectionError(snap.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
			bg.Render(last, styles.MutedText),
		)
	case !snap.Loaded:
		parts = append(parts, bg.Render("Connecting...", styles.WarningText.Bold(true)))
	case snap.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	parts = append(parts,
		bg.Render("Items:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", snap.Board.Total()), styles.Text))

	if !compact {
		counts := make([]string, 0, len(m.lists()))
		for i, l := range m.lists() {
			color := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ListColor(i)))
			counts = append(counts,
				bg.Render(l.Label(), styles.MutedText)+bg.Space()+
					bg.Render(fmt.Sprintf("%d", snap.Board.Len(l.ID)), color))
		}
		if len(counts) > 0 {
			parts = append(parts, bg.Join(counts, " · "))
		}
	}

	if snap.Pending > 0 {
		parts = append(parts,
			bg.Render("Syncing:", styles.MutedText)+bg.Space()+
				bg.Render(fmt.Sprintf("%d", snap.Pending), styles.InfoText))
	}

	if snap.Loaded && snap.LastError != nil {
		limit := 40
		if compact {
			limit = 20
		}
		parts = append(parts, bg.Render("! "+truncate(snap.LastError.Error(), limit), styles.DangerText))
	}

	if !compact && !snap.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}
	if m.width >= LayoutWideWidth && m.apiBind != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.apiBind, 40), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// classifyConnectionError turns a fetch error into a short header label.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the key hints for the current mode and any
// transient message.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.drag != nil:
		commands = []cmd{
			{"h/l", "List"},
			{"j/k", "Position"},
			{"Space", "Drop"},
			{"esc", "Cancel"},
		}
	case m.showLogs:
		commands = []cmd{
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"v", "Board"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"Space", "Grab"},
			{"H/L", "Move"},
			{"a", "Add"},
			{"e", "Edit"},
			{"d", "Delete"},
		}
		if m.sync.CanUndo() {
			commands = append(commands, cmd{"u", "Undo"})
		}
		commands = append(commands,
			cmd{"r", "Reload"},
			cmd{"v", "Logs"},
			cmd{"?", "More"},
		)
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.loading {
		segments = append(segments, bg.Render("reloading...", styles.InfoText))
	} else if m.flash != "" && time.Since(m.flashAt) < FlashDuration {
		style := styles.SuccessText
		if m.flashError {
			style = styles.DangerText
		}
		segments = append(segments, bg.Render(truncate(m.flash, 60), style))
	}

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}
