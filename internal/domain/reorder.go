package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownEntry is returned when a reorder names an ID that is not in
	// the current view.
	ErrUnknownEntry = errors.New("entry not in current view")

	// ErrDuplicateEntry is returned when a reorder lists the same ID twice.
	ErrDuplicateEntry = errors.New("entry listed twice in reorder")
)

// IndexUpdate is a single index-only merge write produced by a reorder.
type IndexUpdate struct {
	ID       string
	OldIndex int
	NewIndex int
}

// PlanReorder computes the writes needed to persist a reordered view.
//
// The entry at position p of an N-long order gets index N-p, so the first
// visible entry carries the highest index. Only entries whose computed index
// differs from their last known stored index produce an update.
func PlanReorder(current []Entry, order []string) ([]IndexUpdate, error) {
	known := make(map[string]Entry, len(current))
	for _, e := range current {
		known[e.ID] = e
	}

	n := len(order)
	seen := make(map[string]bool, n)
	updates := make([]IndexUpdate, 0)

	for p, id := range order {
		e, ok := known[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, id)
		}
		seen[id] = true

		newIndex := n - p
		if e.Index != newIndex {
			updates = append(updates, IndexUpdate{ID: id, OldIndex: e.Index, NewIndex: newIndex})
		}
	}

	return updates, nil
}

// MoveID returns order with id moved to position (0-based, clamped).
func MoveID(order []string, id string, position int) ([]string, error) {
	from := -1
	for i, v := range order {
		if v == id {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	out := make([]string, 0, len(order))
	out = append(out, order[:from]...)
	out = append(out, order[from+1:]...)

	if position < 0 {
		position = 0
	}
	if position > len(out) {
		position = len(out)
	}

	out = append(out, "")
	copy(out[position+1:], out[position:])
	out[position] = id
	return out, nil
}
