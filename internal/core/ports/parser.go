package ports

import "go.trai.ch/tasklens/internal/core/domain"

// FallbackParser extracts tasks from file content on the calling goroutine.
//
//go:generate mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks
type FallbackParser interface {
	// Parse returns the tasks found in content.
	Parse(content []byte, path string, frontmatter domain.ConfigRecord) ([]domain.Task, error)
}
