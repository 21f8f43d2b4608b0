package synchronizer

import (
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
)

// State is the lifecycle of a view.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Item is one row of the reconciled view: either a Persisted entry or a
// Pending placeholder. The set of implementations is closed.
type Item interface {
	// Key is the entry ID or the placeholder's local ID.
	Key() string
	isItem()
}

// Persisted is an entry confirmed by the store.
type Persisted struct {
	Entry domain.Entry
}

func (p Persisted) Key() string { return p.Entry.ID }
func (Persisted) isItem()       {}

// Pending is an add still in flight. It has no index and no metadata yet.
type Pending struct {
	Entry domain.PendingEntry
}

func (p Pending) Key() string { return p.Entry.LocalID }
func (Pending) isItem()       {}

// View is an immutable snapshot handed to the presentation layer.
type View struct {
	State  State
	Filter string
	// Items lists pending placeholders (oldest first) then persisted
	// entries in view order.
	Items []Item
	// Err is the last surfaced failure, cleared by the next good refresh.
	Err error
	// RefreshedAt is when the persisted part was last replaced.
	RefreshedAt time.Time
}

// Entries returns the persisted entries of the view, in order.
func (v View) Entries() []domain.Entry {
	out := make([]domain.Entry, 0, len(v.Items))
	for _, it := range v.Items {
		if p, ok := it.(Persisted); ok {
			out = append(out, p.Entry)
		}
	}
	return out
}

// Pending returns the in-flight placeholders of the view.
func (v View) Pending() []domain.PendingEntry {
	var out []domain.PendingEntry
	for _, it := range v.Items {
		if p, ok := it.(Pending); ok {
			out = append(out, p.Entry)
		}
	}
	return out
}
