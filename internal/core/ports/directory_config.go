package ports

import (
	"context"

	"go.trai.ch/tasklens/internal/core/domain"
)

// DirectoryConfigSource locates and reads per-directory configuration artifacts.
type DirectoryConfigSource interface {
	// Find returns the config artifact that is a direct child of dir.
	Find(dir string) (Entry, bool)

	// Load reads and parses the artifact.
	Load(ctx context.Context, artifact Entry) (domain.DirectorySnapshot, error)

	// IsConfigPath reports whether path names a config artifact.
	IsConfigPath(path string) bool
}
