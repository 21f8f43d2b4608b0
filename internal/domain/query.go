package domain

import (
	"cmp"
	"slices"
)

// Query describes the active view of the collection.
//
// With a Group set, the view holds only entries of that group ordered by
// group then index descending. Without one it holds every entry ordered by
// index descending.
type Query struct {
	Group string
}

// Filtered reports whether the query restricts to a single group.
func (q Query) Filtered() bool {
	return q.Group != ""
}

// Match reports whether e belongs to the view.
func (q Query) Match(e Entry) bool {
	return !q.Filtered() || e.Group == q.Group
}

// Apply returns the entries matching q, in view order.
func (q Query) Apply(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if q.Match(e) {
			out = append(out, e)
		}
	}
	SortEntries(out, q)
	return out
}

// SortEntries orders a view. Ties on index fall back to newest createdAt,
// then ID, so the order is deterministic even with duplicate indices.
func SortEntries(entries []Entry, q Query) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		if q.Filtered() {
			if c := cmp.Compare(a.Group, b.Group); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(b.Index, a.Index); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
