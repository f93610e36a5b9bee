package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/five82/kanban/internal/board"
)

func TestOpenRepository(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		driver string
		url    string
	}{
		{"memory", "memory", ""},
		{"sqlite", "sqlite", filepath.Join(t.TempDir(), "board.db")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := OpenRepository(ctx, tt.driver, tt.url)
			if err != nil {
				t.Fatalf("OpenRepository(%s) returned error: %v", tt.driver, err)
			}
			t.Cleanup(func() { _ = repo.Close() })

			if err := repo.Create(ctx, board.Item{ID: "a", Text: "alpha", ListID: "todo"}); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
			items, err := repo.List(ctx)
			if err != nil || len(items) != 1 {
				t.Fatalf("List = %v, %v; want one item", items, err)
			}
		})
	}

	if _, err := OpenRepository(ctx, "mongo", ""); err == nil {
		t.Fatal("OpenRepository(mongo) returned nil error")
	}
}
