package ontology

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the schema file watcher.
type WatcherConfig struct {
	// Path is the schema file to watch.
	Path string

	// DebounceDelay is how long to wait for more changes before reloading.
	DebounceDelay time.Duration

	// Logger for logging events.
	Logger *slog.Logger
}

// Watcher reloads a schema file on change and hands the fresh schema to a
// callback, typically one that rebuilds the type registry and swaps it in.
// A failed reload or rebuild leaves the previous state intact.
type Watcher struct {
	config   WatcherConfig
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	onChange func(context.Context, *Schema) error

	pendingMu sync.Mutex
	pending   bool
}

// NewWatcher creates a watcher for the schema file at config.Path.
func NewWatcher(config WatcherConfig, onChange func(context.Context, *Schema) error) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = 200 * time.Millisecond
	}

	return &Watcher{
		config:   config,
		watcher:  fsw,
		logger:   logger,
		onChange: onChange,
	}, nil
}

// Start begins watching. Blocks until ctx is canceled.
func (w *Watcher) Start(ctx context.Context) error {
	// Watch the directory, not the file: editors replace files on save,
	// which drops a direct file watch.
	if err := w.watcher.Add(filepath.Dir(w.config.Path)); err != nil {
		return err
	}
	defer w.watcher.Close()

	w.logger.Info("schema watcher started", "path", w.config.Path)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.config.Path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.pendingMu.Lock()
			w.pending = true
			w.pendingMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("schema watcher error", "error", err.Error())

		case <-ticker.C:
			w.pendingMu.Lock()
			fire := w.pending
			w.pending = false
			w.pendingMu.Unlock()
			if fire {
				w.reload(ctx)
			}
		}
	}
}

// reload loads the schema and invokes the callback. Failures are logged and
// otherwise ignored so the previous registry stays live.
func (w *Watcher) reload(ctx context.Context) {
	schema, err := Load(ctx, w.config.Path)
	if err != nil {
		w.logger.Error("schema reload failed", "path", w.config.Path, "error", err.Error())
		return
	}
	if err := w.onChange(ctx, schema); err != nil {
		w.logger.Error("schema rebuild failed", "path", w.config.Path, "error", err.Error())
		return
	}
	w.logger.Info("schema reloaded", "path", w.config.Path, "classes", len(schema.Classes()))
}
