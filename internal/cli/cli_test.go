package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/five82/kanban/internal/board"
	"github.com/five82/kanban/internal/server"
	"github.com/five82/kanban/internal/storage"
)

func newTestServer(t *testing.T, seed ...board.Item) (*storage.Memory, string) {
	t.Helper()
	repo := storage.NewMemory()
	for _, it := range seed {
		if err := repo.Create(context.Background(), it); err != nil {
			t.Fatalf("seed %s: %v", it.ID, err)
		}
	}
	ts := httptest.NewServer(server.New(repo, zap.NewNop(), server.Options{}).Handler())
	t.Cleanup(ts.Close)
	return repo, ts.URL
}

func runCLI(t *testing.T, api string, args ...string) (stdout string, stderr string, err error) {
	t.Helper()

	cmd := NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(t.TempDir(), "missing.toml"),
		"--api", api,
	}, args...))

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func items(t *testing.T, repo storage.Repository) []board.Item {
	t.Helper()
	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	return got
}

func TestListEmptyBoard(t *testing.T) {
	_, api := newTestServer(t)
	out, _, err := runCLI(t, api, "ls")
	if err != nil {
		t.Fatalf("ls error: %v", err)
	}
	for _, want := range []string{"To Do (0)", "In Progress (0)", "Done (0)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("ls output missing %q:\n%s", want, out)
		}
	}
}

func TestAddAndListJSON(t *testing.T) {
	repo, api := newTestServer(t)

	out, _, err := runCLI(t, api, "add", "todo", "write", "the", "docs")
	if err != nil {
		t.Fatalf("add error: %v", err)
	}
	if !strings.Contains(out, "to To Do") {
		t.Fatalf("add output = %q", out)
	}
	stored := items(t, repo)
	if len(stored) != 1 || stored[0].Text != "write the docs" || stored[0].ListID != "todo" {
		t.Fatalf("stored = %#v", stored)
	}

	// Titles resolve too.
	if _, _, err := runCLI(t, api, "add", "done", "ship"); err != nil {
		t.Fatalf("add by id error: %v", err)
	}
	if _, _, err := runCLI(t, api, "add", "in progress", "review"); err != nil {
		t.Fatalf("add by title error: %v", err)
	}

	out, _, err = runCLI(t, api, "ls", "--json")
	if err != nil {
		t.Fatalf("ls --json error: %v", err)
	}
	var got []board.Item
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode ls --json: %v\n%s", err, out)
	}
	var lists []string
	for _, it := range got {
		lists = append(lists, it.ListID)
	}
	if strings.Join(lists, ",") != "todo,inProgress,done" {
		t.Fatalf("ls --json lists = %v, want board order", lists)
	}
}

func TestAddErrors(t *testing.T) {
	_, api := newTestServer(t)

	_, _, err := runCLI(t, api, "add", "backlog", "x")
	if !errors.Is(err, board.ErrUnknownList) {
		t.Fatalf("add unknown list error = %v, want ErrUnknownList", err)
	}
	_, _, err = runCLI(t, api, "add", "todo", "   ")
	if !errors.Is(err, board.ErrEmptyText) {
		t.Fatalf("add blank error = %v, want ErrEmptyText", err)
	}
	if _, _, err := runCLI(t, api, "add", "todo"); err == nil {
		t.Fatal("add without text returned nil error")
	}
}

func TestMoveAcrossLists(t *testing.T) {
	repo, api := newTestServer(t,
		board.Item{ID: "aaaa-1111", Text: "alpha", ListID: "todo"},
		board.Item{ID: "bbbb-2222", Text: "bravo", ListID: "done"},
	)

	out, _, err := runCLI(t, api, "mv", "aaaa", "done", "1")
	if err != nil {
		t.Fatalf("mv error: %v", err)
	}
	if !strings.Contains(out, "moved aaaa-111 to Done #1") {
		t.Fatalf("mv output = %q", out)
	}
	for _, it := range items(t, repo) {
		if it.ListID != "done" {
			t.Fatalf("item %s in %s, want done", it.ID, it.ListID)
		}
	}
}

func TestMoveClampsAndReportsNoop(t *testing.T) {
	_, api := newTestServer(t,
		board.Item{ID: "aaaa-1111", Text: "alpha", ListID: "todo"},
	)

	out, _, err := runCLI(t, api, "mv", "aaaa-1111", "todo", "9")
	if err != nil {
		t.Fatalf("mv error: %v", err)
	}
	if !strings.Contains(out, "already at To Do #1") {
		t.Fatalf("mv output = %q", out)
	}
}

func TestMoveErrors(t *testing.T) {
	_, api := newTestServer(t,
		board.Item{ID: "abc-1", Text: "one", ListID: "todo"},
		board.Item{ID: "abc-2", Text: "two", ListID: "todo"},
	)

	tests := []struct {
		name    string
		args    []string
		wantErr error
		wantMsg string
	}{
		{"ambiguous prefix", []string{"mv", "abc", "done"}, board.ErrInvalidReference, "matches 2 items"},
		{"unknown id", []string{"mv", "zzz", "done"}, board.ErrInvalidReference, "no item"},
		{"unknown list", []string{"mv", "abc-1", "later"}, board.ErrUnknownList, ""},
		{"bad position", []string{"mv", "abc-1", "done", "0"}, nil, "invalid position"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, api, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestEditAndRemove(t *testing.T) {
	repo, api := newTestServer(t,
		board.Item{ID: "aaaa-1111", Text: "alpha", ListID: "todo"},
		board.Item{ID: "bbbb-2222", Text: "bravo", ListID: "todo"},
	)

	if _, _, err := runCLI(t, api, "edit", "aaaa", "alpha", "two"); err != nil {
		t.Fatalf("edit error: %v", err)
	}
	stored := items(t, repo)
	if stored[0].Text != "alpha two" || stored[0].ListID != "todo" {
		t.Fatalf("after edit = %#v", stored[0])
	}

	out, _, err := runCLI(t, api, "rm", "bbbb")
	if err != nil {
		t.Fatalf("rm error: %v", err)
	}
	if !strings.Contains(out, `deleted bbbb-222 "bravo"`) {
		t.Fatalf("rm output = %q", out)
	}
	if stored := items(t, repo); len(stored) != 1 {
		t.Fatalf("after rm = %#v, want 1 item", stored)
	}
}

func TestServerUnreachable(t *testing.T) {
	ts := httptest.NewServer(nil)
	api := ts.URL
	ts.Close()

	_, _, err := runCLI(t, api, "ls")
	if err == nil {
		t.Fatal("ls against a closed server returned nil error")
	}
}

func TestResolveItemExactBeatsPrefix(t *testing.T) {
	b, _ := board.FromItems(board.DefaultLists(), []board.Item{
		{ID: "ab", Text: "short", ListID: "todo"},
		{ID: "abc", Text: "long", ListID: "todo"},
	})
	got, err := resolveItem(b, "ab")
	if err != nil {
		t.Fatalf("resolveItem error: %v", err)
	}
	if got.Text != "short" {
		t.Fatalf("resolveItem(ab) = %#v, want the exact match", got)
	}
}
