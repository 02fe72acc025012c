// Package watch turns filesystem writes to a SQLite database into hub
// signals, so a long-running process sees changes made by other
// dayreview invocations.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/dayreview/internal/live"
	"github.com/julianstephens/dayreview/internal/logger"
)

// Start watches the directory holding dbPath and publishes every topic on
// hub after each burst of writes to the database or its journal files.
// Bursts shorter than delay coalesce into a single publish. The watcher
// stops when ctx ends.
func Start(ctx context.Context, dbPath string, hub *live.Hub, delay time.Duration) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("watch: ensure directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close() //nolint:errcheck
		return fmt.Errorf("watch: watch %s: %w", dir, err)
	}

	base := filepath.Base(dbPath)
	publish := func() { hub.Publish(live.AllTopics...) }

	go func() {
		defer func() {
			if err := watcher.Close(); err != nil {
				logger.Warn("watcher close failed", "error", err)
			}
		}()

		throttle := newThrottle(delay)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// an unclassified failure may hide a change, refresh everything
				logger.Warn("watcher error", "error", err)
				throttle.Trigger(publish)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isDatabaseFile(base, filepath.Base(evt.Name)) {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("database changed on disk", "file", evt.Name, "op", evt.Op.String())
				throttle.Trigger(publish)
			}
		}
	}()

	return nil
}

// isDatabaseFile matches the database and its -wal, -shm and -journal siblings.
func isDatabaseFile(dbBase, name string) bool {
	if name == dbBase {
		return true
	}
	suffix, ok := strings.CutPrefix(name, dbBase)
	if !ok {
		return false
	}
	switch suffix {
	case "-wal", "-shm", "-journal":
		return true
	}
	return false
}

// throttle runs at most one pending callback per delay window.
type throttle struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay}
}

func (t *throttle) Trigger(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		return
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
}

func (t *throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
