package ports

import (
	"context"

	"go.trai.ch/tasklens/internal/core/domain"
)

// TaskWorker parses tasks off the calling goroutine.
//
//go:generate mockgen -source=worker.go -destination=mocks/mock_worker.go -package=mocks
type TaskWorker interface {
	// ProcessFile parses the tasks of one file.
	ProcessFile(ctx context.Context, path string, priority domain.Priority) ([]domain.Task, error)

	// ProcessBatch parses the tasks of several files.
	ProcessBatch(ctx context.Context, paths []string, priority domain.Priority) (map[string][]domain.Task, error)

	// PendingCount returns the number of queued jobs.
	PendingCount() int

	// Stats returns the worker counters.
	Stats() domain.WorkerStats

	// Close stops the worker.
	Close() error
}

// ProjectWorker computes derived project data off the calling goroutine.
type ProjectWorker interface {
	// GetProjectData computes the derived data of one file. It reports false when nothing could be computed.
	GetProjectData(ctx context.Context, path string) (domain.FileDerivedData, bool, error)

	// GetBatchProjectData computes the derived data of several files.
	GetBatchProjectData(ctx context.Context, paths []string) (map[string]domain.FileDerivedData, error)

	// Stats returns the worker counters.
	Stats() domain.WorkerStats

	// Close stops the worker.
	Close() error
}
