package ports

import (
	"context"

	"go.trai.ch/tasklens/internal/core/domain"
)

// DerivedDataSource computes project data for vault files on the calling goroutine.
//
//go:generate mockgen -source=derived.go -destination=mocks/mock_derived.go -package=mocks
type DerivedDataSource interface {
	// Get returns the derived data of path.
	Get(ctx context.Context, path string) (domain.FileDerivedData, bool)

	// GetBatch returns the derived data of every path that could be computed.
	GetBatch(ctx context.Context, paths []string) map[string]domain.FileDerivedData
}
