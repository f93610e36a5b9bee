// Package storagetest holds behavior tests shared by every storage.Repository
// implementation.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/five82/kanban/internal/board"
	"github.com/five82/kanban/internal/storage"
)

// Run exercises a fresh repository from newRepo in each subtest. newRepo must
// return an empty repository; Run closes it when the subtest ends.
func Run(t *testing.T, newRepo func(t *testing.T) storage.Repository) {
	t.Helper()

	open := func(t *testing.T) storage.Repository {
		t.Helper()
		repo := newRepo(t)
		t.Cleanup(func() { _ = repo.Close() })
		return repo
	}

	t.Run("list empty", func(t *testing.T) {
		repo := open(t)
		items, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("List = %#v, want empty", items)
		}
	})

	t.Run("create keeps order", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()
		for i, listID := range []string{"todo", "done", "todo", "inProgress"} {
			item := board.Item{ID: fmt.Sprintf("id-%d", i), Text: fmt.Sprintf("item %d", i), ListID: listID}
			if err := repo.Create(ctx, item); err != nil {
				t.Fatalf("Create(%s) returned error: %v", item.ID, err)
			}
		}
		items, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if len(items) != 4 {
			t.Fatalf("List returned %d items, want 4", len(items))
		}
		for i, it := range items {
			if it.ID != fmt.Sprintf("id-%d", i) {
				t.Fatalf("items[%d].ID = %q, want id-%d", i, it.ID, i)
			}
		}
		if items[1].ListID != "done" || items[1].Text != "item 1" {
			t.Fatalf("items[1] = %#v", items[1])
		}
	})

	t.Run("create duplicate fails", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()
		item := board.Item{ID: "dup", Text: "x", ListID: "todo"}
		if err := repo.Create(ctx, item); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if err := repo.Create(ctx, item); err == nil {
			t.Fatal("second Create returned nil error")
		}
	})

	t.Run("update partial fields", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()
		if err := repo.Create(ctx, board.Item{ID: "a", Text: "alpha", ListID: "todo"}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}

		done := "done"
		got, err := repo.Update(ctx, "a", storage.Update{ListID: &done})
		if err != nil {
			t.Fatalf("Update(listId) returned error: %v", err)
		}
		if got.ListID != "done" || got.Text != "alpha" {
			t.Fatalf("Update(listId) = %#v, want alpha in done", got)
		}

		text := "alpha two"
		got, err = repo.Update(ctx, "a", storage.Update{Text: &text})
		if err != nil {
			t.Fatalf("Update(text) returned error: %v", err)
		}
		if got.ListID != "done" || got.Text != "alpha two" {
			t.Fatalf("Update(text) = %#v, want alpha two in done", got)
		}

		items, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if len(items) != 1 || items[0] != got {
			t.Fatalf("List = %#v, want [%#v]", items, got)
		}
	})

	t.Run("update missing", func(t *testing.T) {
		repo := open(t)
		text := "x"
		_, err := repo.Update(context.Background(), "nope", storage.Update{Text: &text})
		if !errors.Is(err, storage.ErrItemNotFound) {
			t.Fatalf("Update error = %v, want ErrItemNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		repo := open(t)
		ctx := context.Background()
		for _, id := range []string{"a", "b", "c"} {
			if err := repo.Create(ctx, board.Item{ID: id, Text: id, ListID: "todo"}); err != nil {
				t.Fatalf("Create returned error: %v", err)
			}
		}
		if err := repo.Delete(ctx, "b"); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if err := repo.Delete(ctx, "b"); !errors.Is(err, storage.ErrItemNotFound) {
			t.Fatalf("second Delete error = %v, want ErrItemNotFound", err)
		}
		items, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if len(items) != 2 || items[0].ID != "a" || items[1].ID != "c" {
			t.Fatalf("List = %#v, want a and c", items)
		}
	})

	t.Run("ping", func(t *testing.T) {
		repo := open(t)
		if err := repo.Ping(context.Background()); err != nil {
			t.Fatalf("Ping returned error: %v", err)
		}
	})
}
