package ports

import "go.trai.ch/tasklens/internal/core/domain"

// ProjectResolver assigns projects and normalizes metadata.
type ProjectResolver interface {
	// Resolve returns the project of path, or nil when no strategy matched.
	Resolve(path string, meta *domain.FileMetadata, dirConfig domain.ConfigRecord) *domain.ProjectAssignment

	// ApplyMappings applies the configured metadata mappings to record.
	ApplyMappings(record domain.ConfigRecord) domain.ConfigRecord
}
