package ui

import "strings"

const ellipsis = "…"

// truncate trims value and cuts it to limit runes, ending in an ellipsis
// when something was removed. A non-positive limit disables the cut.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit == 1 {
		return string(runes[:1])
	}
	return string(runes[:limit-1]) + ellipsis
}

// truncateMiddle keeps the start and the end of value, which suits paths
// and addresses whose tail matters.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	if limit < 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	head := keep / 2
	tail := keep - head
	return string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
}

// singleLine collapses newlines and runs of whitespace into single spaces.
func singleLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// padRight pads s with spaces to width runes.
func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
