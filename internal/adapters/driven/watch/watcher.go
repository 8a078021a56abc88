// Package watch invalidates the content cache when the override file is
// changed on disk by another process.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/architips/internal/logger"
)

// DefaultDebounce coalesces bursts of events from a single save.
const DefaultDebounce = 300 * time.Millisecond

// OverrideWatcher calls onChange after the watched file is created, written,
// replaced or removed. The parent directory is watched because atomic saves
// replace the file by rename.
type OverrideWatcher struct {
	path     string
	debounce time.Duration
	onChange func()

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}
}

// NewOverrideWatcher creates a watcher for path.
func NewOverrideWatcher(path string, debounce time.Duration, onChange func()) *OverrideWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &OverrideWatcher{path: path, debounce: debounce, onChange: onChange}
}

// Start begins watching. Events are delivered until ctx is done or Close is called.
func (w *OverrideWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating watch directory: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.watcher = fsWatcher
	w.done = make(chan struct{})
	go w.loop(ctx, fsWatcher, w.done)

	logger.Debug("watch: watching %s", w.path)
	return nil
}

// Close stops watching and waits for the event loop to exit.
func (w *OverrideWatcher) Close() error {
	w.mu.Lock()
	fsWatcher, done := w.watcher, w.done
	w.watcher = nil
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	if fsWatcher == nil {
		return nil
	}
	err := fsWatcher.Close()
	<-done
	return err
}

func (w *OverrideWatcher) loop(ctx context.Context, fsWatcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			w.schedule()

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch: %v", err)
		}
	}
}

func (w *OverrideWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}
