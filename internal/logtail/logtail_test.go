package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestParse_StructuredLine(t *testing.T) {
	line := `{"level":"warn","ts":"2026-03-01T10:15:30.250Z","caller":"syncer/syncer.go:300","msg":"remote call failed","op":"move","item_id":"a1","duration":0.5,"pending":2}`

	entry := Parse(line)
	if !entry.Structured() {
		t.Fatalf("Parse(%q) not structured", line)
	}
	if entry.Level != "WARN" || entry.Message != "remote call failed" {
		t.Fatalf("entry = %#v", entry)
	}
	if entry.Time.IsZero() || entry.Time.Minute() != 15 {
		t.Fatalf("Time = %v, want 10:15:30", entry.Time)
	}

	var keys []string
	for _, f := range entry.Fields {
		keys = append(keys, f.Key)
	}
	if strings.Join(keys, ",") != "duration,item_id,op,pending" {
		t.Fatalf("field keys = %v, want sorted non-reserved keys", keys)
	}
	if v, _ := entry.Field("pending"); v != "2" {
		t.Fatalf("pending = %q, want 2", v)
	}
	if v, _ := entry.Field("duration"); v != "0.5" {
		t.Fatalf("duration = %q, want 0.5", v)
	}
}

func TestParse_Unstructured(t *testing.T) {
	tests := []string{
		"",
		"plain text line",
		"{not json",
		`{"msg":"no level"}`,
	}
	for _, line := range tests {
		entry := Parse(line)
		if entry.Structured() {
			t.Errorf("Parse(%q) structured, want raw", line)
		}
		if entry.Message != line || entry.Raw != line {
			t.Errorf("Parse(%q) = %#v, want raw message", line, entry)
		}
	}
}

func TestParseLines_KeepsOrder(t *testing.T) {
	entries := ParseLines([]string{
		`{"level":"info","msg":"first"}`,
		"second",
	})
	if len(entries) != 2 || entries[0].Message != "first" || entries[1].Message != "second" {
		t.Fatalf("entries = %#v", entries)
	}
}
