package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/store"
)

// Store keeps the collection in process memory.
// It backs development runs and serves as the store double in tests.
type Store struct {
	mu        sync.RWMutex
	entries   map[string]domain.Entry // ID -> Entry
	lastWrite time.Time

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

var _ store.Store = (*Store)(nil)

// New creates an empty memory store
func New() *Store {
	return &Store{
		entries: make(map[string]domain.Entry),
		subs:    make(map[int]chan struct{}),
	}
}

// Query returns a filtered, sorted snapshot
func (s *Store) Query(_ context.Context, q domain.Query) ([]domain.Entry, error) {
	s.mu.RLock()
	all := make([]domain.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		all = append(all, e)
	}
	s.mu.RUnlock()

	return q.Apply(all), nil
}

// Get retrieves an entry by ID
func (s *Store) Get(_ context.Context, id string) (domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return domain.Entry{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return e, nil
}

// Insert validates and stores a new entry under a fresh ID
func (s *Store) Insert(_ context.Context, e domain.Entry) (domain.Entry, error) {
	if err := e.Validate(); err != nil {
		return domain.Entry{}, err
	}
	e.ID = uuid.NewString()

	s.mu.Lock()
	s.entries[e.ID] = e
	s.lastWrite = time.Now()
	s.mu.Unlock()

	s.notify()
	return e, nil
}

// Merge applies a partial update to an existing entry
func (s *Store) Merge(_ context.Context, id string, p store.Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Empty() {
		return nil
	}

	s.mu.Lock()
	e, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	s.entries[id] = p.Apply(e)
	s.lastWrite = time.Now()
	s.mu.Unlock()

	s.notify()
	return nil
}

// Delete removes an entry
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	_, existed := s.entries[id]
	delete(s.entries, id)
	if existed {
		s.lastWrite = time.Now()
	}
	s.mu.Unlock()

	if existed {
		s.notify()
	}
	return nil
}

// Count returns the number of entries in the whole collection
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries), nil
}

// LastWrite returns the time of the last successful mutation
func (s *Store) LastWrite() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastWrite
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

// ─────────────────────────────────────────────────────────────────
// Change notifications
// ─────────────────────────────────────────────────────────────────

type subscription struct {
	s    *Store
	id   int
	ch   chan struct{}
	done chan struct{}
	once sync.Once
}

func (sub *subscription) C() <-chan struct{} { return sub.ch }

func (sub *subscription) Close() error {
	sub.once.Do(func() {
		sub.s.subMu.Lock()
		delete(sub.s.subs, sub.id)
		sub.s.subMu.Unlock()
		close(sub.done)
	})
	return nil
}

// Subscribe registers a listener for collection changes. The subscription
// is released when ctx is done or Close is called.
func (s *Store) Subscribe(ctx context.Context) (store.Subscription, error) {
	s.subMu.Lock()
	s.nextID++
	sub := &subscription{s: s, id: s.nextID, ch: make(chan struct{}, 1), done: make(chan struct{})}
	s.subs[sub.id] = sub.ch
	s.subMu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			_ = sub.Close()
		case <-sub.done:
		}
	}()

	return sub, nil
}

// notify signals every listener without blocking; a listener that has not
// drained its previous signal simply keeps the one it has.
func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
