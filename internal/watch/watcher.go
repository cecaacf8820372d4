package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DBWatcher monitors a SQLite database file for out-of-band writes and
// fires a callback once changes settle. External editors and concurrent
// processes write through the same file, so the callback is the hook for
// dropping stale caches.
type DBWatcher struct {
	watcher  *fsnotify.Watcher
	debounce *Debouncer
	logger   *slog.Logger

	dbPath string
	done   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// NewDBWatcher creates a watcher for the database at dbPath. onChange is
// invoked after writes to the file have been quiet for the given period.
func NewDBWatcher(dbPath string, quiet time.Duration, logger *slog.Logger, onChange func()) (*DBWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	abs, err := filepath.Abs(dbPath)
	if err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to resolve database path %s: %w", dbPath, err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DBWatcher{
		watcher:  fw,
		debounce: NewDebouncer(quiet, onChange),
		logger:   logger,
		dbPath:   abs,
		done:     make(chan struct{}),
	}, nil
}

// Start begins monitoring. The parent directory is watched rather than
// the file itself so that WAL checkpoints and atomic replaces are seen.
func (w *DBWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	dir := filepath.Dir(w.dbPath)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop shuts the watcher down and cancels any pending callback. It
// blocks until the event loop has exited. Safe to call more than once.
func (w *DBWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	w.debounce.Stop()

	if err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// IsRunning reports whether the event loop is active.
func (w *DBWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *DBWatcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.debounce.Trigger()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.dbPath, "error", err)
		}
	}
}

// relevant filters directory events down to writes touching the database
// file or its WAL sidecar.
func (w *DBWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.dbPath || name == w.dbPath+"-wal"
}
