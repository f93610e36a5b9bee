package ui

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is t…"},
		{"abcdef", 1, "a"},
		{"  padded  ", 0, "padded"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	path := "/home/user/.local/state/kanban/kanban.log"
	got := truncateMiddle(path, 20)
	if n := len([]rune(got)); n != 20 {
		t.Fatalf("truncateMiddle length = %d (%q), want 20", n, got)
	}
	if got != "/home/use…kanban.log" {
		t.Fatalf("truncateMiddle(%q) = %q", path, got)
	}
	if got := truncateMiddle("127.0.0.1:7488", 40); got != "127.0.0.1:7488" {
		t.Fatalf("short value changed: %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	if got := singleLine("one\ntwo\t three"); got != "one two three" {
		t.Fatalf("singleLine = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("WARN", 5); got != "WARN " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("ERROR", 3); got != "ERROR" {
		t.Fatalf("padRight must not cut: %q", got)
	}
}

func TestColumnWidths(t *testing.T) {
	got := columnWidths(100, 3)
	if got[0] != 33 || got[1] != 33 || got[2] != 34 {
		t.Fatalf("columnWidths(100, 3) = %v", got)
	}
	narrow := columnWidths(30, 3)
	for _, w := range narrow {
		if w != MinColumnWidth {
			t.Fatalf("columnWidths(30, 3) = %v, want minimum widths", narrow)
		}
	}
}
