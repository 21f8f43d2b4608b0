package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
	"github.com/MrSnakeDoc/letterplace/internal/prefs"
	"github.com/MrSnakeDoc/letterplace/internal/store"
)

// maxConcurrentWrites bounds the reorder fan-out.
const maxConcurrentWrites = 8

// ─────────────────────────────────────────────────────────────────
// Reorder
// ─────────────────────────────────────────────────────────────────

// Reorder persists a new order of the visible entries. order must list
// every persisted entry of the view exactly once.
//
// Only entries whose rank changed are written, each with an independent
// index-only merge. It returns the number of successful writes; failed
// writes are joined into the error and leave the view to the next refresh.
func (s *Synchronizer) Reorder(ctx context.Context, order []string) (int, error) {
	s.mu.Lock()
	current := slices.Clone(s.entries)
	for _, id := range order {
		if _, err := s.lookup(id); errors.Is(err, ErrPendingEntry) {
			s.mu.Unlock()
			return 0, err
		}
	}
	s.mu.Unlock()

	if len(order) != len(current) {
		return 0, fmt.Errorf("%w: got %d ids for %d entries", ErrStaleOrder, len(order), len(current))
	}

	updates, err := domain.PlanReorder(current, order)
	if err != nil {
		return 0, err
	}
	if len(updates) == 0 {
		s.logger.Debug("reorder produced no writes")
		return 0, nil
	}

	errs := make([]error, len(updates))
	var g errgroup.Group
	g.SetLimit(maxConcurrentWrites)
	for i, u := range updates {
		i, u := i, u
		g.Go(func() error {
			if err := s.store.Merge(ctx, u.ID, store.IndexPatch(u.NewIndex)); err != nil {
				errs[i] = fmt.Errorf("entry %s: %w", u.ID, err)
			}
			return nil
		})
	}
	_ = g.Wait() // Failures are collected per update

	applied := make(map[string]int, len(updates))
	for i, u := range updates {
		if errs[i] == nil {
			applied[u.ID] = u.NewIndex
		}
	}

	err = errors.Join(errs...)

	s.mu.Lock()
	entries := slices.Clone(s.entries)
	for i := range entries {
		if idx, ok := applied[entries[i].ID]; ok {
			entries[i].Index = idx
		}
	}
	domain.SortEntries(entries, domain.Query{Group: s.filter})
	s.entries = entries
	if err != nil {
		s.lastErr = fmt.Errorf("reorder partially failed: %w", err)
	}
	s.mu.Unlock()
	s.emit()

	s.logger.Info("reorder written",
		logger.Int("writes", len(applied)),
		logger.Int("failed", len(updates)-len(applied)),
		logger.Int("visible", len(order)))

	if err != nil {
		return len(applied), fmt.Errorf("reorder partially failed: %w", err)
	}
	return len(applied), nil
}

// Move places one entry at position (0-based, clamped) of the visible list
// and persists the resulting order.
func (s *Synchronizer) Move(ctx context.Context, id string, position int) (int, error) {
	s.mu.Lock()
	if _, err := s.lookup(id); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	order := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		order = append(order, e.ID)
	}
	s.mu.Unlock()

	moved, err := domain.MoveID(order, id, position)
	if err != nil {
		return 0, err
	}
	return s.Reorder(ctx, moved)
}

// ─────────────────────────────────────────────────────────────────
// Group reassignment & deletion
// ─────────────────────────────────────────────────────────────────

// SetGroup moves an entry to another group without touching its index.
func (s *Synchronizer) SetGroup(ctx context.Context, id, group string) error {
	if err := domain.ValidateGroup(group); err != nil {
		return err
	}

	s.mu.Lock()
	_, err := s.lookup(id)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.store.Merge(ctx, id, store.GroupPatch(group)); err != nil {
		err = fmt.Errorf("failed to set group of %s: %w", id, err)
		s.surface(err)
		return err
	}

	s.mu.Lock()
	q := domain.Query{Group: s.filter}
	entries := make([]domain.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.ID == id {
			e.Group = group
		}
		if q.Match(e) {
			entries = append(entries, e)
		}
	}
	domain.SortEntries(entries, q)
	s.entries = entries
	s.mu.Unlock()
	s.emit()

	s.logger.Info("entry regrouped", logger.String("id", id), logger.String("group", group))
	return nil
}

// Delete asks the Confirmer, then removes the entry. It reports whether the
// entry was deleted; a declined confirmation is not an error.
func (s *Synchronizer) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	e, err := s.lookup(id)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	ok, err := s.confirmer.Confirm(ctx, e)
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		s.logger.Debug("deletion declined", logger.String("id", id))
		return false, nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		err = fmt.Errorf("failed to delete %s: %w", id, err)
		s.surface(err)
		return false, err
	}

	s.mu.Lock()
	s.entries = slices.DeleteFunc(slices.Clone(s.entries), func(x domain.Entry) bool { return x.ID == id })
	s.mu.Unlock()
	s.emit()

	s.logger.Info("entry deleted", logger.String("id", id), logger.String("url", e.URL))
	return true, nil
}

// ─────────────────────────────────────────────────────────────────
// Filter
// ─────────────────────────────────────────────────────────────────

// SetFilter persists a new group filter and refreshes the view. An empty
// group clears the filter.
func (s *Synchronizer) SetFilter(ctx context.Context, group string) error {
	if err := s.prefs.Save(prefs.Preferences{GroupFilter: group}); err != nil {
		return fmt.Errorf("failed to save filter: %w", err)
	}

	s.mu.Lock()
	s.filter = group
	s.mu.Unlock()

	s.logger.Info("group filter changed", logger.String("filter", group))
	return s.Refresh(ctx)
}
