// Package store defines the document store contract the reading list is
// persisted in. Implementations live in the memory and redis subpackages.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
)

// ErrNotFound is returned when a point operation targets a missing entry.
var ErrNotFound = errors.New("entry not found")

// Patch is a merge-style partial update. Nil fields are left untouched.
type Patch struct {
	Index *int
	Group *string
}

// IndexPatch builds a patch touching only the index.
func IndexPatch(index int) Patch { return Patch{Index: &index} }

// GroupPatch builds a patch touching only the group.
func GroupPatch(group string) Patch { return Patch{Group: &group} }

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Index == nil && p.Group == nil
}

// Validate checks patch values before they reach a store.
func (p Patch) Validate() error {
	if p.Index != nil && *p.Index < 0 {
		return fmt.Errorf("%w: negative index %d", domain.ErrInvalidEntry, *p.Index)
	}
	if p.Group != nil {
		if err := domain.ValidateGroup(*p.Group); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidEntry, err)
		}
	}
	return nil
}

// Apply returns e with the patch merged in.
func (p Patch) Apply(e domain.Entry) domain.Entry {
	if p.Index != nil {
		e.Index = *p.Index
	}
	if p.Group != nil {
		e.Group = *p.Group
	}
	return e
}

// Subscription delivers coarse "something in the collection changed"
// notifications. Bursts may be coalesced into a single signal.
type Subscription interface {
	C() <-chan struct{}
	Close() error
}

// Store is the collection of entries.
type Store interface {
	// Query returns the entries of the view described by q, in view order.
	Query(ctx context.Context, q domain.Query) ([]domain.Entry, error)
	Get(ctx context.Context, id string) (domain.Entry, error)
	// Insert validates e, assigns it a fresh ID and writes it atomically.
	Insert(ctx context.Context, e domain.Entry) (domain.Entry, error)
	// Merge updates only the fields set in p. Missing entries yield ErrNotFound.
	Merge(ctx context.Context, id string, p Patch) error
	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	Subscribe(ctx context.Context) (Subscription, error)
	Ping(ctx context.Context) error
}
