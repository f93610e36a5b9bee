package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/kanban/internal/board"
	"github.com/five82/kanban/internal/storage"
	"github.com/five82/kanban/internal/storage/storagetest"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		d    dialect
		in   string
		want string
	}{
		{dialectSQLite, "SELECT ? , ?", "SELECT ? , ?"},
		{dialectPostgres, "UPDATE items SET text = ?, updated_at = ? WHERE id = ?", "UPDATE items SET text = $1, updated_at = $2 WHERE id = $3"},
		{dialectPostgres, "SELECT 1", "SELECT 1"},
	}
	for _, tt := range tests {
		if got := tt.d.rebind(tt.in); got != tt.want {
			t.Errorf("%s rebind(%q) = %q, want %q", tt.d, tt.in, got, tt.want)
		}
	}
}

func TestSQLiteRepository(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Repository {
		store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kanban.db"))
		if err != nil {
			t.Fatalf("OpenSQLite returned error: %v", err)
		}
		return store
	})
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kanban.db")
	ctx := context.Background()

	store, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite returned error: %v", err)
	}
	if err := store.Create(ctx, board.Item{ID: "a", Text: "alpha", ListID: "todo"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	store, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 1 || items[0].Text != "alpha" {
		t.Fatalf("List = %#v, want the stored item", items)
	}
}

func TestStampIsMonotonic(t *testing.T) {
	s := &Store{}
	prev := s.stamp()
	for i := 0; i < 1000; i++ {
		next := s.stamp()
		if next <= prev {
			t.Fatalf("stamp went from %d to %d", prev, next)
		}
		prev = next
	}
}

// TestPostgresRepository runs against a real server when
// KANBAN_TEST_POSTGRES_URL is set.
func TestPostgresRepository(t *testing.T) {
	url := os.Getenv("KANBAN_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("KANBAN_TEST_POSTGRES_URL not set")
	}
	storagetest.Run(t, func(t *testing.T) storage.Repository {
		store, err := OpenPostgres(context.Background(), url)
		if err != nil {
			t.Fatalf("OpenPostgres returned error: %v", err)
		}
		if _, err := store.DB().Exec(`TRUNCATE items`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return store
	})
}
