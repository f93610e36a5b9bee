package board

import (
	"errors"
	"strings"
	"testing"
)

func boardOf(t *testing.T, lists map[string][]string) Collection {
	t.Helper()
	var items []Item
	for _, l := range DefaultLists() {
		for _, id := range lists[l.ID] {
			items = append(items, Item{ID: id, Text: "item " + id, ListID: l.ID})
		}
	}
	c, dropped := FromItems(DefaultLists(), items)
	if len(dropped) != 0 {
		t.Fatalf("unexpected dropped items: %v", dropped)
	}
	return c
}

func ids(c Collection, listID string) string {
	var parts []string
	for _, it := range c.Items(listID) {
		parts = append(parts, it.ID)
	}
	return strings.Join(parts, ",")
}

func loc(listID string, index int) *Location {
	return &Location{ListID: listID, Index: index}
}

func TestReorderCrossList(t *testing.T) {
	c := boardOf(t, map[string][]string{"todo": {"A", "B", "C"}})

	m, err := c.Reorder(Location{ListID: "todo", Index: 0}, loc("done", 0))
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if got := ids(m.Collection, "todo"); got != "B,C" {
		t.Errorf("todo = %q, want B,C", got)
	}
	if got := ids(m.Collection, "done"); got != "A" {
		t.Errorf("done = %q, want A", got)
	}
	moved, err := m.Collection.At(Location{ListID: "done", Index: 0})
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if moved.ListID != "done" {
		t.Errorf("moved ListID = %q, want done", moved.ListID)
	}
	if !m.Changed || !m.CrossList() {
		t.Errorf("Changed=%v CrossList=%v, want both true", m.Changed, m.CrossList())
	}
	if m.Item.ListID != "done" {
		t.Errorf("Move.Item.ListID = %q, want done", m.Item.ListID)
	}
}

func TestReorderSameList(t *testing.T) {
	tests := []struct {
		name    string
		from    int
		to      int
		want    string
		changed bool
		clamped bool
	}{
		{name: "last to first", from: 2, to: 0, want: "C,A,B", changed: true},
		{name: "first to last", from: 0, to: 2, want: "B,C,A", changed: true},
		{name: "middle down", from: 1, to: 2, want: "A,C,B", changed: true},
		{name: "own slot", from: 1, to: 1, want: "A,B,C"},
		{name: "past end clamps", from: 0, to: 10, want: "B,C,A", changed: true, clamped: true},
		{name: "negative clamps", from: 2, to: -4, want: "C,A,B", changed: true, clamped: true},
		{name: "last past end stays", from: 2, to: 7, want: "A,B,C", clamped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := boardOf(t, map[string][]string{"todo": {"A", "B", "C"}})
			m, err := c.Reorder(Location{ListID: "todo", Index: tt.from}, loc("todo", tt.to))
			if err != nil {
				t.Fatalf("Reorder: %v", err)
			}
			if got := ids(m.Collection, "todo"); got != tt.want {
				t.Errorf("todo = %q, want %q", got, tt.want)
			}
			if m.Changed != tt.changed {
				t.Errorf("Changed = %v, want %v", m.Changed, tt.changed)
			}
			if m.Clamped != tt.clamped {
				t.Errorf("Clamped = %v, want %v", m.Clamped, tt.clamped)
			}
			if m.CrossList() {
				t.Error("same-list move reported as cross-list")
			}
		})
	}
}

func TestReorderCrossListClamp(t *testing.T) {
	c := boardOf(t, map[string][]string{"todo": {"A"}, "done": {"X", "Y"}})

	m, err := c.Reorder(Location{ListID: "todo", Index: 0}, loc("done", 99))
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if got := ids(m.Collection, "done"); got != "X,Y,A" {
		t.Errorf("done = %q, want X,Y,A", got)
	}
	if !m.Clamped || m.To.Index != 2 {
		t.Errorf("Clamped=%v To=%v, want clamped to index 2", m.Clamped, m.To)
	}
}

func TestReorderNilDestination(t *testing.T) {
	c := boardOf(t, map[string][]string{"todo": {"A", "B"}})

	m, err := c.Reorder(Location{ListID: "todo", Index: 0}, nil)
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if m.Changed {
		t.Error("cancelled drag reported a change")
	}
	if !m.Collection.Equal(c) {
		t.Error("cancelled drag changed the collection")
	}
}

func TestReorderErrors(t *testing.T) {
	c := boardOf(t, map[string][]string{"todo": {"A"}})

	tests := []struct {
		name string
		src  Location
		dst  *Location
		want error
	}{
		{name: "unknown source list", src: Location{ListID: "later"}, dst: loc("todo", 0), want: ErrUnknownList},
		{name: "unknown destination list", src: Location{ListID: "todo"}, dst: loc("later", 0), want: ErrUnknownList},
		{name: "source past end", src: Location{ListID: "todo", Index: 1}, dst: loc("done", 0), want: ErrInvalidReference},
		{name: "negative source", src: Location{ListID: "todo", Index: -1}, dst: loc("done", 0), want: ErrInvalidReference},
		{name: "empty source list", src: Location{ListID: "done"}, dst: loc("todo", 0), want: ErrInvalidReference},
		{name: "unknown list wins over bad index", src: Location{ListID: "todo", Index: 5}, dst: loc("later", 0), want: ErrUnknownList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Reorder(tt.src, tt.dst)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReorderDoesNotMutateInput(t *testing.T) {
	c := boardOf(t, map[string][]string{"todo": {"A", "B", "C"}, "done": {"X"}})
	before := c.IDs()

	if _, err := c.Reorder(Location{ListID: "todo", Index: 2}, loc("todo", 0)); err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if _, err := c.Reorder(Location{ListID: "todo", Index: 1}, loc("done", 0)); err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	if got := strings.Join(c.IDs(), ","); got != strings.Join(before, ",") {
		t.Errorf("input changed: got %s, want %s", got, strings.Join(before, ","))
	}
	if c.Items("done")[0].ListID != "done" || c.Items("todo")[1].ListID != "todo" {
		t.Error("input item ListID changed")
	}
}

func TestReorderPreservesItemSet(t *testing.T) {
	c := boardOf(t, map[string][]string{
		"todo":       {"A", "B", "C"},
		"inProgress": {"D"},
		"done":       {"E", "F"},
	})
	lists := c.Lists()

	for _, from := range lists {
		for i := 0; i < c.Len(from.ID); i++ {
			for _, to := range lists {
				for j := -1; j <= c.Len(to.ID)+1; j++ {
					m, err := c.Reorder(Location{ListID: from.ID, Index: i}, loc(to.ID, j))
					if err != nil {
						t.Fatalf("Reorder(%s[%d] -> %s[%d]): %v", from.ID, i, to.ID, j, err)
					}
					if m.Collection.Total() != c.Total() {
						t.Fatalf("total changed: %d -> %d", c.Total(), m.Collection.Total())
					}
					seen := map[string]bool{}
					for _, l := range lists {
						for _, it := range m.Collection.Items(l.ID) {
							if it.ListID != l.ID {
								t.Fatalf("item %s in %s has ListID %s", it.ID, l.ID, it.ListID)
							}
							if seen[it.ID] {
								t.Fatalf("item %s appears twice", it.ID)
							}
							seen[it.ID] = true
						}
					}
					if got, _ := m.Collection.Find(m.Item.ID); got != m.To {
						t.Fatalf("item %s at %v, Move.To = %v", m.Item.ID, got, m.To)
					}
				}
			}
		}
	}
}

func TestMoveInverseRestoresBoard(t *testing.T) {
	c := boardOf(t, map[string][]string{"todo": {"A", "B", "C"}, "done": {"X", "Y"}})

	moves := []struct {
		src Location
		dst Location
	}{
		{Location{ListID: "todo", Index: 0}, Location{ListID: "done", Index: 1}},
		{Location{ListID: "todo", Index: 2}, Location{ListID: "todo", Index: 0}},
		{Location{ListID: "done", Index: 1}, Location{ListID: "todo", Index: 3}},
	}
	for _, mv := range moves {
		dst := mv.dst
		m, err := c.Reorder(mv.src, &dst)
		if err != nil {
			t.Fatalf("Reorder: %v", err)
		}
		id, back := m.Inverse()
		undone, err := m.Collection.MoveItem(id, back)
		if err != nil {
			t.Fatalf("MoveItem: %v", err)
		}
		if !undone.Collection.Equal(c) {
			t.Errorf("undo of %v -> %v: todo=%s done=%s", mv.src, mv.dst,
				ids(undone.Collection, "todo"), ids(undone.Collection, "done"))
		}
	}
}

func TestMoveItemUnknownID(t *testing.T) {
	c := boardOf(t, map[string][]string{"todo": {"A"}})
	if _, err := c.MoveItem("nope", Location{ListID: "done"}); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("err = %v, want ErrInvalidReference", err)
	}
}
