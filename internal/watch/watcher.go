// Package watch re-runs work whenever a dataset file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc is called once per settled change of the watched file.
type ChangeFunc func(ctx context.Context, path string) error

// Stats counts what the watcher has seen.
type Stats struct {
	Events    int
	Runs      int
	Errors    int
	LastEvent time.Time
	LastOp    string
}

// DatasetWatcher watches a single file. The parent directory is watched so
// that editors replacing the file by rename are still noticed.
type DatasetWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	onChange ChangeFunc
	logger   *zap.Logger
	debounce time.Duration

	pending time.Time // zero when nothing is pending
	stats   Stats

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, onChange ChangeFunc, logger *zap.Logger) (*DatasetWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &DatasetWatcher{
		watcher:  w,
		path:     abs,
		onChange: onChange,
		logger:   logger,
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet period before onChange runs. It must be
// called before Start.
func (dw *DatasetWatcher) SetDebounce(d time.Duration) {
	dw.debounce = d
}

// Start begins watching in a background goroutine.
func (dw *DatasetWatcher) Start(ctx context.Context) error {
	dw.mu.Lock()
	if dw.running {
		dw.mu.Unlock()
		return nil
	}
	dw.running = true
	dw.mu.Unlock()

	dir := filepath.Dir(dw.path)
	if err := dw.watcher.Add(dir); err != nil {
		dw.mu.Lock()
		dw.running = false
		dw.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	dw.logger.Info("Watching dataset", zap.String("path", dw.path))

	go dw.run(ctx)
	return nil
}

// Stop ends watching and waits for an in-flight onChange to return.
func (dw *DatasetWatcher) Stop() {
	dw.mu.Lock()
	wasRunning := dw.running
	dw.running = false
	dw.mu.Unlock()

	if wasRunning {
		close(dw.stopCh)
		<-dw.doneCh
	}
	if err := dw.watcher.Close(); err != nil {
		dw.logger.Error("Failed to close watcher", zap.Error(err))
	}
}

// Done is closed once the watch loop has exited.
func (dw *DatasetWatcher) Done() <-chan struct{} {
	return dw.doneCh
}

// Stats returns a snapshot of the counters.
func (dw *DatasetWatcher) Stats() Stats {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	return dw.stats
}

func (dw *DatasetWatcher) run(ctx context.Context) {
	defer close(dw.doneCh)

	tick := dw.debounce / 3
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			dw.logger.Debug("Watcher context cancelled")
			return

		case <-dw.stopCh:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			dw.handleEvent(event)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Error("Watcher error", zap.Error(err))
			dw.mu.Lock()
			dw.stats.Errors++
			dw.mu.Unlock()

		case <-ticker.C:
			dw.processPending(ctx)
		}
	}
}

func (dw *DatasetWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != dw.path {
		return
	}

	var op string
	switch {
	case event.Op&fsnotify.Create != 0:
		op = "create"
	case event.Op&fsnotify.Write != 0:
		op = "modify"
	case event.Op&fsnotify.Rename != 0:
		op = "rename"
	case event.Op&fsnotify.Remove != 0:
		op = "remove"
	default:
		return
	}
	dw.logger.Debug("Dataset event", zap.String("op", op), zap.String("path", event.Name))

	dw.mu.Lock()
	defer dw.mu.Unlock()
	dw.stats.Events++
	dw.stats.LastEvent = time.Now()
	dw.stats.LastOp = op
	// A removed file has nothing to compare; wait for it to come back.
	if op == "remove" || op == "rename" {
		dw.pending = time.Time{}
		return
	}
	dw.pending = dw.stats.LastEvent
}

func (dw *DatasetWatcher) processPending(ctx context.Context) {
	dw.mu.Lock()
	if dw.pending.IsZero() || time.Since(dw.pending) < dw.debounce {
		dw.mu.Unlock()
		return
	}
	dw.pending = time.Time{}
	dw.stats.Runs++
	dw.mu.Unlock()

	if err := dw.onChange(ctx, dw.path); err != nil {
		dw.logger.Warn("Re-run after change failed", zap.String("path", dw.path), zap.Error(err))
		dw.mu.Lock()
		dw.stats.Errors++
		dw.mu.Unlock()
	}
}
