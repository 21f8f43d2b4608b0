package domain

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func viewOf(ids ...string) []Entry {
	entries := make([]Entry, 0, len(ids))
	for i, id := range ids {
		entries = append(entries, Entry{
			ID:        id,
			URL:       "https://example.com/" + id,
			Index:     len(ids) - i,
			Group:     DefaultGroup,
			CreatedAt: time.Unix(int64(i), 0),
		})
	}
	return entries
}

func TestPlanReorder_SameOrderProducesNoWrites(t *testing.T) {
	view := viewOf("a", "b", "c", "d")

	updates, err := PlanReorder(view, []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("PlanReorder() error = %v", err)
	}
	if len(updates) != 0 {
		t.Errorf("PlanReorder() produced %d updates for unchanged order, want 0", len(updates))
	}
}

func TestPlanReorder_Idempotent(t *testing.T) {
	view := viewOf("a", "b", "c", "d", "e")
	order := []string{"c", "a", "b", "d", "e"}

	first, err := PlanReorder(view, order)
	if err != nil {
		t.Fatalf("PlanReorder() error = %v", err)
	}
	if len(first) == 0 {
		t.Fatal("first reorder should produce writes")
	}

	// Apply the writes the way the store would.
	byID := make(map[string]int, len(first))
	for _, u := range first {
		byID[u.ID] = u.NewIndex
	}
	for i := range view {
		if idx, ok := byID[view[i].ID]; ok {
			view[i].Index = idx
		}
	}

	second, err := PlanReorder(view, order)
	if err != nil {
		t.Fatalf("PlanReorder() error = %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second identical reorder produced %d writes, want 0", len(second))
	}
}

func TestPlanReorder_SingleMoveIsMinimal(t *testing.T) {
	tests := []struct {
		name    string
		order   []string
		wantIDs []string
	}{
		{
			name:    "swap adjacent",
			order:   []string{"b", "a", "c", "d", "e", "f", "g", "h"},
			wantIDs: []string{"b", "a"},
		},
		{
			name:    "move third to top",
			order:   []string{"c", "a", "b", "d", "e", "f", "g", "h"},
			wantIDs: []string{"c", "a", "b"},
		},
		{
			name:    "move last up one",
			order:   []string{"a", "b", "c", "d", "e", "f", "h", "g"},
			wantIDs: []string{"h", "g"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := viewOf("a", "b", "c", "d", "e", "f", "g", "h")
			updates, err := PlanReorder(view, tt.order)
			if err != nil {
				t.Fatalf("PlanReorder() error = %v", err)
			}

			got := make([]string, 0, len(updates))
			for _, u := range updates {
				got = append(got, u.ID)
			}
			if !slices.Equal(got, tt.wantIDs) {
				t.Errorf("PlanReorder() wrote %v, want %v", got, tt.wantIDs)
			}
		})
	}
}

func TestPlanReorder_IndexFormula(t *testing.T) {
	view := viewOf("a", "b", "c")
	// Stored indices deliberately stale.
	for i := range view {
		view[i].Index = 0
	}

	updates, err := PlanReorder(view, []string{"c", "b", "a"})
	if err != nil {
		t.Fatalf("PlanReorder() error = %v", err)
	}

	want := map[string]int{"c": 3, "b": 2, "a": 1}
	if len(updates) != len(want) {
		t.Fatalf("got %d updates, want %d", len(updates), len(want))
	}
	for _, u := range updates {
		if want[u.ID] != u.NewIndex {
			t.Errorf("entry %s got index %d, want %d", u.ID, u.NewIndex, want[u.ID])
		}
	}
}

func TestPlanReorder_Errors(t *testing.T) {
	view := viewOf("a", "b")

	if _, err := PlanReorder(view, []string{"a", "zzz"}); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("unknown id: got %v, want ErrUnknownEntry", err)
	}
	if _, err := PlanReorder(view, []string{"a", "a"}); !errors.Is(err, ErrDuplicateEntry) {
		t.Errorf("duplicate id: got %v, want ErrDuplicateEntry", err)
	}
}

func TestMoveID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		position int
		want     []string
	}{
		{"to top", "c", 0, []string{"c", "a", "b", "d"}},
		{"to bottom", "a", 3, []string{"b", "c", "d", "a"}},
		{"clamped high", "b", 99, []string{"a", "c", "d", "b"}},
		{"clamped low", "d", -5, []string{"d", "a", "b", "c"}},
		{"same place", "b", 1, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MoveID([]string{"a", "b", "c", "d"}, tt.id, tt.position)
			if err != nil {
				t.Fatalf("MoveID() error = %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("MoveID() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := MoveID([]string{"a"}, "x", 0); !errors.Is(err, ErrUnknownEntry) {
		t.Errorf("MoveID() unknown id error = %v", err)
	}
}
