package ui

import "github.com/charmbracelet/lipgloss"

// Theme is a named color palette. Colors are hex strings.
type Theme struct {
	Name string

	Surface    string // header and command bar
	SurfaceAlt string // unfocused columns
	FocusBg    string // focused column

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// ListColors tint column titles, cycling when there are more lists.
	ListColors []string
}

// ListColor returns the title color for the list at index i.
func (t Theme) ListColor(i int) string {
	if len(t.ListColors) == 0 || i < 0 {
		return t.Accent
	}
	return t.ListColors[i%len(t.ListColors)]
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	Placeholder lipgloss.Style // drop target
	Ghost       lipgloss.Style // item being dragged, at its source slot
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:   fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:     fg(t.Warning).Bold(true),
		Selected: fg(t.SelectionText).Background(lipgloss.Color(t.SelectionBg)),

		Placeholder: fg(t.Accent).Bold(true),
		Ghost:       fg(t.Faint).Strikethrough(true),
	}
}

// WithBackground returns a copy of Styles with every style given the
// specified background, so styled segments do not leave gaps.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, st := range []*lipgloss.Style{
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header, &s.Logo, &s.Selected, &s.Placeholder, &s.Ghost,
	} {
		*st = st.Background(bg)
	}
	return s
}

// Palettes:
//   Nightfox  https://github.com/EdenEast/nightfox.nvim
//   Kanagawa  https://github.com/rebelot/kanagawa.nvim
//   Slate     https://tailwindcss.com/docs/colors
var themeOrder = []Theme{
	{
		Name: "Nightfox",
		Surface: "#192330", SurfaceAlt: "#212e3f", FocusBg: "#29394f",
		SelectionBg: "#2b3b51", SelectionText: "#cdcecf",
		Border: "#39506d", BorderFocus: "#719cd6",
		Text: "#cdcecf", Muted: "#738091", Faint: "#71839b", Accent: "#719cd6",
		Success: "#81b29a", Warning: "#dbc074", Danger: "#c94f6d", Info: "#63cdcf",
		ListColors: []string{"#dbc074", "#9d79d6", "#81b29a", "#f4a261", "#63cdcf"},
	},
	{
		Name: "Kanagawa",
		Surface: "#1F1F28", SurfaceAlt: "#2A2A37", FocusBg: "#363646",
		SelectionBg: "#2D4F67", SelectionText: "#DCD7BA",
		Border: "#54546D", BorderFocus: "#7E9CD8",
		Text: "#DCD7BA", Muted: "#C8C093", Faint: "#727169", Accent: "#7E9CD8",
		Success: "#98BB6C", Warning: "#E6C384", Danger: "#E46876", Info: "#7FB4CA",
		ListColors: []string{"#E6C384", "#957FB8", "#98BB6C", "#FFA066", "#7FB4CA"},
	},
	{
		Name: "Slate",
		Surface: "#0f172a", SurfaceAlt: "#1e293b", FocusBg: "#283548",
		SelectionBg: "#0284c7", SelectionText: "#f8fafc",
		Border: "#334155", BorderFocus: "#38bdf8",
		Text: "#f1f5f9", Muted: "#94a3b8", Faint: "#64748b", Accent: "#38bdf8",
		Success: "#22c55e", Warning: "#f59e0b", Danger: "#ef4444", Info: "#06b6d4",
		ListColors: []string{"#f59e0b", "#06b6d4", "#22c55e", "#a855f7", "#38bdf8"},
	},
}

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range themeOrder {
		if t.Name == name {
			return t
		}
	}
	return themeOrder[0]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, t := range themeOrder {
		if t.Name == current {
			return themeOrder[(i+1)%len(themeOrder)].Name
		}
	}
	return themeOrder[0].Name
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	names := make([]string, len(themeOrder))
	for i, t := range themeOrder {
		names[i] = t.Name
	}
	return names
}
