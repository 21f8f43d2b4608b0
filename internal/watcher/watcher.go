// Package watcher provides a debounced file watcher with an explicit
// start/close lifecycle.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/letterplace/internal/logger"
)

// DefaultDebounce is the coalescing window for bursts of file events.
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls onChange once per burst of changes to a single file.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
	logger   logger.Logger

	fsw  *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup

	mu       sync.Mutex
	timer    *time.Timer
	closed   bool
	inflight sync.WaitGroup // running onChange calls
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, debounce time.Duration, onChange func(), log logger.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
		logger:   log,
		done:     make(chan struct{}),
	}
}

// Start begins watching. The parent directory is watched rather than the
// file itself so atomic replace-by-rename writes are seen.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create watch dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close() // Ignore close error in error path
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.fsw = fsw

	w.logger.Debug("file watcher started",
		logger.String("path", w.path),
		logger.Duration("debounce", w.debounce))

	w.wg.Add(1)
	go w.loop(ctx)

	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug("watched file changed",
					logger.String("path", w.path),
					logger.String("op", event.Op.String()))
				w.schedule()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", logger.Error(err))
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.mu.Unlock()

	defer w.inflight.Done()
	w.onChange()
}

// Close stops watching, cancels any pending callback and waits for a running
// one, so onChange is never called after Close returns. onChange must not
// call Close. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)

	var err error
	if w.fsw != nil {
		err = w.fsw.Close()
	}
	w.wg.Wait()
	w.inflight.Wait()
	return err
}
