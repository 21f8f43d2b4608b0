// Package synchronizer keeps a local, ordered and optionally group-filtered
// view of the reading list in step with the store, and turns user actions
// (add, reorder, regroup, delete, filter) into store writes.
package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/extract"
	"github.com/MrSnakeDoc/letterplace/internal/fetch"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
	"github.com/MrSnakeDoc/letterplace/internal/prefs"
	"github.com/MrSnakeDoc/letterplace/internal/remote"
	"github.com/MrSnakeDoc/letterplace/internal/store"
)

var (
	// ErrUnknownEntry is returned when an operation names an ID that is not
	// in the current view.
	ErrUnknownEntry = domain.ErrUnknownEntry

	// ErrPendingEntry is returned when an operation targets a placeholder
	// whose add has not completed.
	ErrPendingEntry = errors.New("entry is still being added")

	// ErrStaleOrder is returned when a reorder does not list exactly the
	// entries of the current view.
	ErrStaleOrder = errors.New("order does not match the current view")
)

// Mode selects where the add pipeline runs.
type Mode string

const (
	// ModeClient fetches and extracts locally, then inserts into the store.
	ModeClient Mode = "client"
	// ModeServer submits the URL to the remote add endpoint.
	ModeServer Mode = "server"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeClient, ModeServer:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid add mode %q (want %q or %q)", s, ModeClient, ModeServer)
	}
}

// Config holds the collaborators of a Synchronizer.
type Config struct {
	Store store.Store
	// Prefs persists the group filter. Nil keeps it in memory.
	Prefs prefs.Store

	Mode Mode
	// Fetcher and Extractor serve ModeClient.
	Fetcher   fetch.Fetcher
	Extractor *extract.Extractor
	// Submitter serves ModeServer.
	Submitter remote.Submitter

	// DefaultGroup is used for adds made without an active filter.
	DefaultGroup string
	// Confirmer gates deletions. Nil refuses every deletion.
	Confirmer Confirmer

	Logger logger.Logger
	Now    func() time.Time
}

// Synchronizer owns the local view of the collection.
//
// All methods are safe for concurrent use. Refreshes and writes may
// overlap; the most recently completed refresh decides the persisted part
// of the view.
type Synchronizer struct {
	store        store.Store
	prefs        prefs.Store
	mode         Mode
	fetcher      fetch.Fetcher
	extractor    *extract.Extractor
	submitter    remote.Submitter
	defaultGroup string
	confirmer    Confirmer
	logger       logger.Logger
	now          func() time.Time

	mu          sync.Mutex
	state       State
	populated   bool
	loading     int
	filter      string
	entries     []domain.Entry
	pending     []domain.PendingEntry
	lastErr     error
	refreshedAt time.Time

	hooksMu sync.Mutex
	emitMu  sync.Mutex
	hooks   []func(View)

	trigger  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	started  bool
	wg       sync.WaitGroup
}

// New validates cfg and creates a Synchronizer in the Empty state.
func New(cfg Config) (*Synchronizer, error) {
	if cfg.Store == nil {
		return nil, errors.New("synchronizer: store is required")
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeClient
	}
	if _, err := ParseMode(string(cfg.Mode)); err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case ModeClient:
		if cfg.Fetcher == nil {
			return nil, errors.New("synchronizer: client mode requires a fetcher")
		}
		if cfg.Extractor == nil {
			cfg.Extractor = extract.New()
		}
	case ModeServer:
		if cfg.Submitter == nil {
			return nil, errors.New("synchronizer: server mode requires a submitter")
		}
	}
	if cfg.Prefs == nil {
		cfg.Prefs = &prefs.MemoryStore{}
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = domain.DefaultGroup
	}
	if cfg.Confirmer == nil {
		cfg.Confirmer = ConfirmFunc(func(context.Context, domain.Entry) (bool, error) { return false, nil })
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Synchronizer{
		store:        cfg.Store,
		prefs:        cfg.Prefs,
		mode:         cfg.Mode,
		fetcher:      cfg.Fetcher,
		extractor:    cfg.Extractor,
		submitter:    cfg.Submitter,
		defaultGroup: cfg.DefaultGroup,
		confirmer:    cfg.Confirmer,
		logger:       cfg.Logger,
		now:          cfg.Now,
		state:        StateEmpty,
		trigger:      make(chan struct{}, 1),
		stopCh:       make(chan struct{}),
	}, nil
}

// Mode returns the configured add mode.
func (s *Synchronizer) Mode() Mode { return s.mode }

// ─────────────────────────────────────────────────────────────────
// Lifecycle
// ─────────────────────────────────────────────────────────────────

// Start subscribes to collection changes, performs the initial refresh and
// runs the reconciliation loop until Stop is called or ctx is done.
//
// A failed subscription is logged and the loop keeps serving manual
// refresh requests.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("synchronizer already started")
	}
	s.started = true
	s.mu.Unlock()

	// Subscribe before the first query so no write between the two is missed.
	sub, err := s.store.Subscribe(ctx)
	if err != nil {
		s.logger.Warn("change notifications unavailable, refreshing on demand only",
			logger.Error(err))
		sub = nil
	}

	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("initial refresh failed", logger.Error(err))
	}

	var changes <-chan struct{}
	if sub != nil {
		changes = sub.C()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if sub != nil {
			defer func() {
				_ = sub.Close() // Ignore close errors on shutdown
			}()
		}

		for {
			select {
			case _, ok := <-changes:
				if !ok {
					s.logger.Warn("change notification stream closed")
					changes = nil
					continue
				}
				s.logger.Debug("collection changed, refreshing")
				if err := s.Refresh(ctx); err != nil {
					s.logger.Error("failed to refresh after change", logger.Error(err))
				}
			case <-s.trigger:
				s.logger.Debug("manual refresh triggered")
				if err := s.Refresh(ctx); err != nil {
					s.logger.Error("failed to refresh", logger.Error(err))
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop ends the reconciliation loop and releases the subscription.
func (s *Synchronizer) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// RequestRefresh asks the running loop to refresh, e.g. on refocus.
// Requests made while one is queued are coalesced.
func (s *Synchronizer) RequestRefresh() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// ─────────────────────────────────────────────────────────────────
// Reconciliation
// ─────────────────────────────────────────────────────────────────

// Refresh re-reads the persisted filter, re-runs the active query and
// replaces the persisted part of the view.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	p, err := s.prefs.Load()

	s.mu.Lock()
	if err != nil {
		s.logger.Warn("failed to load preferences, keeping current filter", logger.Error(err))
	} else {
		s.filter = p.GroupFilter
	}
	q := domain.Query{Group: s.filter}
	s.loading++
	s.state = StateLoading
	s.mu.Unlock()
	s.emit()

	start := time.Now()
	entries, err := s.store.Query(ctx, q)

	s.mu.Lock()
	s.loading--
	switch {
	case err != nil:
		s.lastErr = fmt.Errorf("refresh failed: %w", err)
	case q.Group != s.filter:
		// The filter changed while this query ran; its result describes a
		// view nobody is looking at any more.
		s.logger.Debug("dropping refresh for stale filter", logger.String("filter", q.Group))
	default:
		s.entries = entries
		s.populated = true
		s.lastErr = nil
		s.refreshedAt = s.now()
	}
	s.settleState()
	s.mu.Unlock()
	s.emit()

	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	s.logger.Debug("view refreshed",
		logger.String("filter", q.Group),
		logger.Int("count", len(entries)),
		logger.Duration("duration", time.Since(start)))
	return nil
}

// settleState derives the state once a refresh finished. Caller holds mu.
func (s *Synchronizer) settleState() {
	switch {
	case s.loading > 0:
		s.state = StateLoading
	case s.populated:
		s.state = StatePopulated
	default:
		s.state = StateEmpty
	}
}

// Filter returns the active group filter.
func (s *Synchronizer) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// View returns a snapshot of the current view.
func (s *Synchronizer) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// snapshot copies the view. Caller holds mu.
func (s *Synchronizer) snapshot() View {
	items := make([]Item, 0, len(s.pending)+len(s.entries))
	for _, p := range s.pending {
		items = append(items, Pending{Entry: p})
	}
	for _, e := range s.entries {
		items = append(items, Persisted{Entry: e})
	}
	return View{
		State:       s.state,
		Filter:      s.filter,
		Items:       items,
		Err:         s.lastErr,
		RefreshedAt: s.refreshedAt,
	}
}

// OnChange registers fn to receive every new view. Hooks run one at a time
// and must not call back into the Synchronizer synchronously.
func (s *Synchronizer) OnChange(fn func(View)) {
	s.hooksMu.Lock()
	s.hooks = append(s.hooks, fn)
	s.hooksMu.Unlock()
}

// emit delivers a fresh snapshot to every hook.
func (s *Synchronizer) emit() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.hooksMu.Lock()
	hooks := slices.Clone(s.hooks)
	s.hooksMu.Unlock()
	if len(hooks) == 0 {
		return
	}

	v := s.View()
	for _, fn := range hooks {
		fn(v)
	}
}

// surface records a failure for the presentation layer.
func (s *Synchronizer) surface(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.emit()
}

// lookup finds id in the view. Caller holds mu.
func (s *Synchronizer) lookup(id string) (domain.Entry, error) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	for _, p := range s.pending {
		if p.LocalID == id {
			return domain.Entry{}, fmt.Errorf("%w: %s", ErrPendingEntry, id)
		}
	}
	return domain.Entry{}, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
}
