// Package scheduler runs the server's background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
	"github.com/MrSnakeDoc/letterplace/internal/metrics"
	"github.com/MrSnakeDoc/letterplace/internal/store"
)

// DefaultCensusInterval is used when no interval is configured.
const DefaultCensusInterval = 5 * time.Minute

// Census keeps the per-group entry gauge current. It recounts on a fixed
// interval and whenever the store reports a change.
type Census struct {
	store    store.Store
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu     sync.RWMutex
	counts map[string]int
}

// NewCensus creates a census job over st.
func NewCensus(st store.Store, log logger.Logger, interval time.Duration) *Census {
	if interval <= 0 {
		interval = DefaultCensusInterval
	}
	return &Census{
		store:    st,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
		counts:   map[string]int{},
	}
}

// Start counts once, then keeps counting in the background until Stop or
// ctx is done.
func (c *Census) Start(ctx context.Context) error {
	sub, err := c.store.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("census subscribe: %w", err)
	}

	// Count immediately on start
	if err := c.Count(ctx); err != nil {
		c.logger.Warn("initial census failed", logger.Error(err))
	}

	ticker := time.NewTicker(c.interval)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer ticker.Stop()
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ticker.C:
			case <-sub.C():
			case <-c.stopCh:
				return
			case <-ctx.Done():
				return
			}
			if err := c.Count(ctx); err != nil {
				c.logger.Error("census failed", logger.Error(err))
			}
		}
	}()

	return nil
}

// Stop ends the background loop and waits for it.
func (c *Census) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	c.wg.Wait()
}

// Count tallies entries per group and publishes the result.
func (c *Census) Count(ctx context.Context) error {
	entries, err := c.store.Query(ctx, domain.Query{})
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Group]++
	}

	c.mu.Lock()
	c.counts = counts
	c.mu.Unlock()

	metrics.SetEntryCounts(counts)
	c.logger.Debug("census completed",
		logger.Int("entries", len(entries)),
		logger.Int("groups", len(counts)))
	return nil
}

// Counts returns a copy of the last tally.
func (c *Census) Counts() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int, len(c.counts))
	for g, n := range c.counts {
		out[g] = n
	}
	return out
}
