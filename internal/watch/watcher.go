// Package watch re-runs the packaging pipeline when the manifest or the data
// directory changes, for iterating on profiles without re-invoking the tool.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jfindlay/pscreen/internal/logfields"
)

// RunFunc is invoked (debounced) after a relevant filesystem change.
type RunFunc func(ctx context.Context) error

// Watcher monitors the manifest file and the data directory and triggers
// debounced pipeline re-runs.
type Watcher struct {
	manifestPath string
	dataDir      string
	run          RunFunc
	watcher      *fsnotify.Watcher
	mu           sync.RWMutex
	stopChan     chan struct{}
	changeChan   chan struct{}
	debounceTime time.Duration
}

// NewWatcher creates a watcher for the given manifest file and data
// directory. Paths are resolved to absolute form for consistent event
// matching.
func NewWatcher(manifestPath, dataDir string, run RunFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absManifest, err := filepath.Abs(manifestPath)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	absData, err := filepath.Abs(dataDir)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	return &Watcher{
		manifestPath: absManifest,
		dataDir:      absData,
		run:          run,
		watcher:      fsw,
		stopChan:     make(chan struct{}),
		changeChan:   make(chan struct{}, 1),
		debounceTime: 2 * time.Second, // Debounce rapid file changes
	}, nil
}

// Start begins monitoring and launches the watcher goroutines.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Watch the directory containing the manifest (more reliable than
	// watching the file directly) plus the data directory itself.
	manifestDir := filepath.Dir(w.manifestPath)
	if err := w.watcher.Add(manifestDir); err != nil {
		return fmt.Errorf("failed to watch manifest directory %s: %w", manifestDir, err)
	}
	if w.dataDir != manifestDir {
		if err := w.watcher.Add(w.dataDir); err != nil {
			return fmt.Errorf("failed to watch data directory %s: %w", w.dataDir, err)
		}
	}

	slog.Info("Starting packaging watcher", logfields.Path(w.manifestPath), logfields.Dir(w.dataDir))

	go w.watchLoop(ctx)
	go w.runLoop(ctx)

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	slog.Info("Stopping packaging watcher")
	close(w.stopChan)
	return w.watcher.Close()
}

// relevant reports whether an event concerns the manifest file or the data
// directory's contents.
func (w *Watcher) relevant(name string) bool {
	if name == w.manifestPath {
		return true
	}
	return filepath.Dir(name) == w.dataDir
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write:
				slog.Debug("Write detected", logfields.File(event.Name))
				w.trigger()
			case event.Op&fsnotify.Create == fsnotify.Create:
				slog.Debug("Create detected", logfields.File(event.Name))
				w.trigger()
			case event.Op&fsnotify.Remove == fsnotify.Remove:
				slog.Debug("Remove detected", logfields.File(event.Name))
				w.trigger()
			case event.Op&fsnotify.Rename == fsnotify.Rename:
				slog.Debug("Rename detected", logfields.File(event.Name))
				w.trigger()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Watcher error", logfields.Error(err))
		}
	}
}

// runLoop handles debounced pipeline re-runs. The run executes on this
// goroutine, so a trigger arriving mid-run waits for the run to finish
// instead of starting a concurrent pipeline.
func (w *Watcher) runLoop(ctx context.Context) {
	timer := time.NewTimer(w.debounceTime)
	stopTimer(timer)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-w.changeChan:
			// Reset/start debounce timer
			stopTimer(timer)
			timer.Reset(w.debounceTime)
		case <-timer.C:
			if err := w.run(ctx); err != nil {
				slog.Error("Packaging re-run failed", logfields.Error(err))
			}
		}
	}
}

// stopTimer stops a timer and drains its channel so a Reset arms it cleanly.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

// trigger queues a debounced re-run
func (w *Watcher) trigger() {
	select {
	case w.changeChan <- struct{}{}:
		// Re-run triggered
	default:
		// Re-run already pending
	}
}
