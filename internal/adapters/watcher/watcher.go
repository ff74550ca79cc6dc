// Package watcher reports vault changes as file lifecycle events.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skippedDirectories are never watched.
var skippedDirectories = map[string]bool{
	".git":         true,
	".obsidian":    true,
	".trash":       true,
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher watches a vault directory tree using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	root      string
	events    chan domain.FileLifecycleEvent
	stopOnce  sync.Once
}

// NewWatcher creates a watcher. Call Start to begin watching.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherStart.Error())
	}
	return &Watcher{
		fsWatcher: w,
		logger:    logger,
		events:    make(chan domain.FileLifecycleEvent, eventChannelBuffer),
	}, nil
}

// Start watches root and every directory below it.
func (w *Watcher) Start(ctx context.Context, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatcherStart.Error()), "root", root)
	}
	w.root = abs

	for dir := range w.directories(abs) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherStart.Error()), "dir", dir)
		}
	}

	go w.processEvents(ctx)
	return nil
}

// Stop closes the underlying watcher. The event iterator ends once pending events are drained.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		err = w.fsWatcher.Close()
	})
	return err
}

// Events returns an iterator of lifecycle events with vault-relative paths.
func (w *Watcher) Events() iter.Seq[domain.FileLifecycleEvent] {
	return func(yield func(domain.FileLifecycleEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// directories yields dir and every watchable directory below it.
func (w *Watcher) directories(dir string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if !d.IsDir() {
				return nil
			}
			if p != dir && skippedDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(p) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !skippedDirectories[info.Name()] {
						for dir := range w.directories(event.Name) {
							_ = w.fsWatcher.Add(dir)
						}
					}
					continue
				}
			}

			lifecycle, ok := w.convertEvent(event)
			if !ok {
				continue
			}
			select {
			case w.events <- lifecycle:
			case <-ctx.Done():
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(zerr.Wrap(err, "file watcher error"))
		}
	}
}

// convertEvent maps an fsnotify event on a markdown file to a lifecycle event.
// A rename reports the old path as deleted; the new path arrives as its own create event.
func (w *Watcher) convertEvent(event fsnotify.Event) (domain.FileLifecycleEvent, bool) {
	rel, ok := w.relative(event.Name)
	if !ok || !strings.EqualFold(filepath.Ext(rel), ".md") {
		return nil, false
	}

	switch {
	case event.Has(fsnotify.Create):
		return domain.FileCreated{Path: rel}, true
	case event.Has(fsnotify.Write):
		return domain.FileModified{Path: rel}, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return domain.FileDeleted{Path: rel}, true
	default:
		return nil, false
	}
}

// relative converts an absolute path below the root to a vault path.
func (w *Watcher) relative(name string) (string, bool) {
	rel, err := filepath.Rel(w.root, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if skippedDirectories[part] {
			return "", false
		}
	}
	return filepath.ToSlash(rel), true
}
