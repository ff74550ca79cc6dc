package ports

import (
	"context"

	"go.trai.ch/tasklens/internal/core/domain"
)

// MetadataService returns parsed metadata for vault files.
//
//go:generate mockgen -source=metadata.go -destination=mocks/mock_metadata.go -package=mocks
type MetadataService interface {
	// GetCache returns the metadata of path. It reports false when the file is missing or unreadable.
	GetCache(ctx context.Context, path string) (*domain.FileMetadata, bool)
}
