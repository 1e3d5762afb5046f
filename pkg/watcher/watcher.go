package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/0xmhha/year-in-code/pkg/logger"
)

// watcher implements the Watcher interface using fsnotify.
type watcher struct {
	fsw    *fsnotify.Watcher
	logger logger.Logger
	config Config

	events chan Batch
	errors chan error

	mu       sync.RWMutex
	running  bool
	closed   bool
	stopChan chan struct{}

	// Watch targets, set by Start.
	roots []string
	files map[string]bool

	// Debouncing state.
	debounceMu sync.Mutex
	pending    []Event
	timer      *time.Timer

	failureCount int
}

// New creates a new file system watcher.
func New(cfg Config, log logger.Logger) (Watcher, error) {
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 300 * time.Millisecond
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".jsonl", ".json"}
	}
	if cfg.CircuitBreakerThreshold <= 0 {
		cfg.CircuitBreakerThreshold = 5
	}
	if log == nil {
		log = logger.Noop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &watcher{
		fsw:      fsw,
		logger:   log.Named("watcher"),
		config:   cfg,
		events:   make(chan Batch, 16),
		errors:   make(chan error, 10),
		stopChan: make(chan struct{}),
		files:    make(map[string]bool),
	}

	w.logger.Debug("file watcher created", "debounce_interval", cfg.DebounceInterval)

	return w, nil
}

// Start implements Watcher.Start.
func (w *watcher) Start(ctx context.Context, paths []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.running {
		return ErrAlreadyStarted
	}

	var roots []string
	files := make(map[string]bool)
	for _, path := range paths {
		expanded := filepath.Clean(expandHome(path))

		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				w.logger.Warn("watch path does not exist, skipping", "path", expanded)
				continue
			}
			return fmt.Errorf("failed to stat path %s: %w", expanded, err)
		}

		if info.IsDir() {
			if err := w.addPathRecursive(expanded); err != nil {
				return fmt.Errorf("failed to add path %s: %w", expanded, err)
			}
			roots = append(roots, expanded)
			continue
		}

		// Editors replace files on save, so watch the directory entry.
		if err := w.fsw.Add(filepath.Dir(expanded)); err != nil {
			return fmt.Errorf("failed to add path %s: %w", expanded, err)
		}
		files[expanded] = true
	}

	if len(roots) == 0 && len(files) == 0 {
		return ErrInvalidPath
	}

	w.roots = roots
	w.files = files
	w.stopChan = make(chan struct{})
	w.running = true

	w.logger.Info("watcher started", "dirs", len(roots), "files", len(files))

	go w.processEvents(ctx, w.stopChan)

	return nil
}

// Stop implements Watcher.Stop.
func (w *watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if !w.running {
		return ErrNotStarted
	}

	close(w.stopChan)
	w.running = false

	w.logger.Info("watcher stopped")
	return nil
}

// Events implements Watcher.Events.
func (w *watcher) Events() <-chan Batch {
	return w.events
}

// Errors implements Watcher.Errors.
func (w *watcher) Errors() <-chan error {
	return w.errors
}

// Close implements Watcher.Close.
func (w *watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if w.running {
		close(w.stopChan)
		w.running = false
	}

	w.debounceMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = nil
	w.debounceMu.Unlock()

	close(w.events)
	close(w.errors)

	if err := w.fsw.Close(); err != nil {
		w.logger.Error("failed to close fsnotify watcher", "error", err)
		return fmt.Errorf("failed to close watcher: %w", err)
	}

	w.logger.Debug("watcher closed")
	return nil
}

// processEvents handles events from fsnotify until ctx or stop ends it.
func (w *watcher) processEvents(ctx context.Context, stop <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("event processing stopped", "reason", "context cancelled")
			return

		case <-stop:
			w.logger.Debug("event processing stopped", "reason", "stop signal")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.handleError(err)
		}
	}
}

// handleEvent filters one fsnotify event and queues it for the next batch.
func (w *watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Clean(event.Name)

	if event.Op&fsnotify.Create == fsnotify.Create && w.underRoot(name) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if err := w.addPathRecursive(name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", name, "error", err)
			}
			return
		}
	}

	if !w.matches(name) {
		return
	}

	var op Op
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		op = OpCreate
	case event.Op&fsnotify.Write == fsnotify.Write:
		op = OpWrite
	case event.Op&fsnotify.Remove == fsnotify.Remove:
		op = OpRemove
	case event.Op&fsnotify.Rename == fsnotify.Rename:
		op = OpRename
	case event.Op&fsnotify.Chmod == fsnotify.Chmod:
		// Permission changes never alter a report.
		return
	default:
		w.logger.Debug("unknown fsnotify operation", "op", event.Op, "path", name)
		return
	}

	w.debounce(Event{Path: name, Op: op, Timestamp: time.Now()})
}

// matches reports whether name is a watched file or a file with a watched
// extension below a watched directory.
func (w *watcher) matches(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.files[name] {
		return true
	}
	if !w.underRootLocked(name) {
		return false
	}
	ext := filepath.Ext(name)
	for _, want := range w.config.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func (w *watcher) underRoot(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.underRootLocked(name)
}

func (w *watcher) underRootLocked(name string) bool {
	for _, root := range w.roots {
		if strings.HasPrefix(name, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// debounce queues event and restarts the quiet-period timer.
func (w *watcher) debounce(event Event) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	w.pending = append(w.pending, event)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.DebounceInterval, w.flush)
}

// flush emits the pending events as one batch.
func (w *watcher) flush() {
	w.debounceMu.Lock()
	events := w.pending
	w.pending = nil
	w.debounceMu.Unlock()

	if len(events) == 0 {
		return
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.events <- Batch{Events: events, At: time.Now()}:
	default:
		w.logger.Warn("event channel full, dropping batch", "events", len(events))
	}
}

// handleError processes fsnotify errors with circuit breaker pattern.
func (w *watcher) handleError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	w.failureCount++
	w.logger.Error("fsnotify error", "error", err, "failure_count", w.failureCount)

	if w.failureCount >= w.config.CircuitBreakerThreshold {
		err = ErrCircuitBreakerOpen
	}

	select {
	case w.errors <- err:
	default:
		w.logger.Warn("error channel full, dropping error")
	}
}

// addPathRecursive adds a directory and all its subdirectories.
func (w *watcher) addPathRecursive(root string) error {
	if err := w.fsw.Add(root); err != nil {
		return fmt.Errorf("failed to add path: %w", err)
	}

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("error walking path", "path", path, "error", err)
			return nil
		}
		if !entry.IsDir() || path == root {
			return nil
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			w.logger.Warn("failed to add subdirectory", "path", path, "error", addErr)
		}
		return nil
	})
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
