package reload

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/davidahmann/campusguard/internal/campus"
)

const DefaultDebounce = 500 * time.Millisecond

// Target receives a freshly loaded campus configuration.
type Target interface {
	Swap(store *campus.Store)
}

// Observer is told about every reload attempt.
type Observer interface {
	ObserveReload(err error)
}

// Reloader watches a campus config file and swaps it into Target after it
// changes. A document that fails to load is logged and the running
// configuration stays in place.
type Reloader struct {
	watcher  *fsnotify.Watcher
	path     string
	target   Target
	observer Observer
	logger   *slog.Logger
	Debounce time.Duration

	mu      sync.Mutex
	pending *time.Timer
}

// New watches the directory holding path so editors that replace the file
// by rename are still seen.
func New(path string, target Target, observer Observer, logger *slog.Logger) (*Reloader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
	}
	return &Reloader{
		watcher:  watcher,
		path:     filepath.Clean(path),
		target:   target,
		observer: observer,
		logger:   logger,
		Debounce: DefaultDebounce,
	}, nil
}

// Run blocks until ctx is cancelled or the watcher closes.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()
	defer r.stopPending()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				r.schedule()
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("campus config watcher error", "error", err)
		}
	}
}

// Reload loads the file now and swaps it in on success.
func (r *Reloader) Reload() error {
	store, err := campus.Load(r.path)
	if r.observer != nil {
		r.observer.ObserveReload(err)
	}
	if err != nil {
		r.logger.Error("campus config reload failed", "path", r.path, "error", err)
		return err
	}
	r.target.Swap(store)
	r.logger.Info("campus config reloaded", "path", r.path, "campus", store.CampusName(), "config_hash", store.Hash())
	return nil
}

// Close releases the watcher for a Reloader that will not Run.
func (r *Reloader) Close() error {
	r.stopPending()
	return r.watcher.Close()
}

func (r *Reloader) schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil {
		r.pending.Stop()
	}
	r.pending = time.AfterFunc(r.Debounce, func() {
		_ = r.Reload()
	})
}

func (r *Reloader) stopPending() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil {
		r.pending.Stop()
	}
}
