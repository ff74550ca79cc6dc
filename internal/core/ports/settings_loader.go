package ports

import "go.trai.ch/tasklens/internal/core/domain"

// SettingsLoader loads the tasklens settings.
//
//go:generate mockgen -source=settings_loader.go -destination=mocks/mock_settings_loader.go -package=mocks
type SettingsLoader interface {
	// Load reads the settings file at path. An empty path searches the working directory.
	Load(path string) (*domain.Settings, error)
}
