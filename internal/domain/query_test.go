package domain

import (
	"testing"
	"time"
)

func TestQueryApply_Unfiltered(t *testing.T) {
	entries := []Entry{
		{ID: "low", Index: 1, Group: "🌎 General"},
		{ID: "high", Index: 5, Group: "📺 Watch"},
		{ID: "mid", Index: 3, Group: "🌎 General"},
	}

	got := Query{}.Apply(entries)

	want := []string{"high", "mid", "low"}
	if len(got) != len(want) {
		t.Fatalf("Apply() returned %d entries, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestQueryApply_Filtered(t *testing.T) {
	entries := []Entry{
		{ID: "a", Index: 1, Group: "📺 Watch"},
		{ID: "b", Index: 7, Group: "🌎 General"},
		{ID: "c", Index: 4, Group: "📺 Watch"},
	}

	got := Query{Group: "📺 Watch"}.Apply(entries)

	if len(got) != 2 {
		t.Fatalf("Apply() returned %d entries, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "a" {
		t.Errorf("Apply() order = [%s %s], want [c a]", got[0].ID, got[1].ID)
	}
	for _, e := range got {
		if e.Group != "📺 Watch" {
			t.Errorf("entry %s has group %q outside the filter", e.ID, e.Group)
		}
	}
}

func TestSortEntries_TieBreak(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	entries := []Entry{
		{ID: "x", Index: 2, CreatedAt: older},
		{ID: "y", Index: 2, CreatedAt: newer},
		{ID: "w", Index: 2, CreatedAt: newer},
	}

	SortEntries(entries, Query{})

	want := []string{"w", "y", "x"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, entries[i].ID, id)
		}
	}
}
