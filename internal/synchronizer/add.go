package synchronizer

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
)

// Add validates rawURL and runs the add pipeline of the configured mode.
//
// A placeholder is visible in the view while the add is in flight. On
// failure the placeholder is removed and nothing is written; on success it
// is replaced by the confirmed entry and a refresh is requested.
func (s *Synchronizer) Add(ctx context.Context, rawURL string) (domain.Entry, error) {
	url, err := domain.ValidateHTTPURL(rawURL)
	if err != nil {
		return domain.Entry{}, err
	}

	s.mu.Lock()
	filter := s.filter
	group := domain.GroupOrDefault(filter, s.defaultGroup)
	placeholder := domain.PendingEntry{
		LocalID:   uuid.NewString(),
		URL:       url,
		Group:     group,
		StartedAt: s.now(),
	}
	s.pending = append(s.pending, placeholder)
	s.mu.Unlock()
	s.emit()

	log := s.logger.With(
		logger.String("url", url),
		logger.String("group", group),
		logger.String("mode", string(s.mode)),
	)
	log.Info("adding entry")

	var entry domain.Entry
	switch s.mode {
	case ModeServer:
		entry, err = s.submitter.Submit(ctx, url, group)
	default:
		entry, err = s.addLocal(ctx, url, group)
	}

	s.mu.Lock()
	s.pending = slices.DeleteFunc(s.pending, func(p domain.PendingEntry) bool {
		return p.LocalID == placeholder.LocalID
	})
	if err != nil {
		s.lastErr = fmt.Errorf("failed to add %s: %w", url, err)
	} else {
		s.adopt(entry)
	}
	s.mu.Unlock()
	s.emit()

	if err != nil {
		log.Error("failed to add entry", logger.Error(err))
		return domain.Entry{}, fmt.Errorf("failed to add %s: %w", url, err)
	}

	log.Info("entry added",
		logger.String("id", entry.ID),
		logger.Int("index", entry.Index))
	s.RequestRefresh()
	return entry, nil
}

// addLocal fetches, extracts and inserts with index = view length + 1.
func (s *Synchronizer) addLocal(ctx context.Context, url, group string) (domain.Entry, error) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return domain.Entry{}, err
	}

	rec := s.extractor.Extract(url, page)

	// The index is computed after the fetch so adds that finish meanwhile
	// are counted.
	s.mu.Lock()
	index := len(s.entries) + 1
	s.mu.Unlock()

	entry := domain.NewEntry(rec, index, group, s.now())
	return s.store.Insert(ctx, entry)
}

// adopt shows a confirmed entry before the next refresh lands, when it
// belongs to the active view. Caller holds mu.
func (s *Synchronizer) adopt(e domain.Entry) {
	q := domain.Query{Group: s.filter}
	if e.ID == "" || !q.Match(e) {
		return
	}
	if slices.ContainsFunc(s.entries, func(x domain.Entry) bool { return x.ID == e.ID }) {
		return
	}
	entries := append(slices.Clone(s.entries), e)
	domain.SortEntries(entries, q)
	s.entries = entries
}
