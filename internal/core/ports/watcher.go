package ports

import (
	"context"
	"iter"

	"go.trai.ch/tasklens/internal/core/domain"
)

// Watcher reports vault changes as lifecycle events.
type Watcher interface {
	// Start begins watching root recursively.
	Start(ctx context.Context, root string) error
	// Stop stops the watcher and releases all resources.
	Stop() error
	// Events returns an iterator of lifecycle events with vault-relative paths.
	Events() iter.Seq[domain.FileLifecycleEvent]
}

// WatcherFactory creates a Watcher on demand.
type WatcherFactory func() (Watcher, error)
