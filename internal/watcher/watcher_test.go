package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrSnakeDoc/letterplace/internal/logger"
)

func TestWatcherDebouncesBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	var calls atomic.Int32
	w := New(path, 100*time.Millisecond, func() { calls.Add(1) }, logger.Nop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = w.Close() }()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	// Give a second burst the chance to (wrongly) fire.
	time.Sleep(300 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("onChange called %d times, want 1", got)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	w := New(filepath.Join(dir, "prefs.yaml"), 50*time.Millisecond, func() { calls.Add(1) }, logger.Nop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("onChange called %d times for an unrelated file", got)
	}
}

func TestWatcherCloseCancelsPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	var calls atomic.Int32
	w := New(path, 300*time.Millisecond, func() { calls.Add(1) }, logger.Nop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("onChange fired %d times after Close", got)
	}
}

func TestWatcherCloseWaitsForRunningCallback(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32

	w := New(filepath.Join(t.TempDir(), "prefs.yaml"), time.Millisecond, func() {
		calls.Add(1)
		entered <- struct{}{}
		<-release
	}, logger.Nop())

	go w.fire()
	<-entered

	closed := make(chan struct{})
	go func() {
		_ = w.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while onChange was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return after onChange finished")
	}

	w.fire()
	if got := calls.Load(); got != 1 {
		t.Errorf("onChange calls = %d, want 1", got)
	}
}
