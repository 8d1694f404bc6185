package catalog

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatcherOption customises a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger injects a logger for reload outcomes. Defaults to a nop
// logger.
func WithWatcherLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithReloadHook registers a callback invoked with each successfully loaded
// catalog, including the initial one.
func WithReloadHook(hook func(*Catalog)) WatcherOption {
	return func(w *Watcher) {
		if hook != nil {
			w.hooks = append(w.hooks, hook)
		}
	}
}

// Watcher keeps a catalog loaded from a YAML document on disk, reloading it
// whenever the file changes. A document that fails to parse is ignored and
// the previous catalog stays active.
type Watcher struct {
	mu      sync.RWMutex
	current *Catalog

	path    string
	fsw     *fsnotify.Watcher
	logger  *zap.Logger
	hooks   []func(*Catalog)
	done    chan struct{}
	closeMu sync.Mutex
	closed  bool
}

// NewWatcher loads the catalog at path and starts watching its directory for
// changes. Callers must Close the watcher when done.
func NewWatcher(path string, options ...WatcherOption) (*Watcher, error) {
	initial, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog: create watcher: %w", err)
	}
	// Watch the directory rather than the file: editors and atomic writers
	// replace the inode, which silently drops a file-level watch.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("catalog: watch %s: %w", path, err)
	}

	w := &Watcher{
		current: initial,
		path:    path,
		fsw:     fsw,
		logger:  zap.NewNop(),
		done:    make(chan struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	for _, hook := range w.hooks {
		hook(initial)
	}

	go w.run()
	return w, nil
}

// Catalog returns the most recently loaded catalog.
func (w *Watcher) Catalog() *Catalog {
	if w == nil {
		return nil
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Close stops watching. It is safe to call multiple times.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	w.closeMu.Lock()
	defer w.closeMu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Warn("catalog watch error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

func (w *Watcher) reload() {
	next, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("catalog reload failed, keeping previous",
			zap.String("path", w.path), zap.Error(err))
		return
	}

	w.mu.Lock()
	w.current = next
	w.mu.Unlock()

	w.logger.Info("catalog reloaded",
		zap.String("path", w.path),
		zap.String("locale", next.Locale()),
		zap.Int("packages", len(next.packages)))
	for _, hook := range w.hooks {
		hook(next)
	}
}
