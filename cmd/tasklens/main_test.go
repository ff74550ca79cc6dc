package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tasklens/internal/app"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func defaultSettings(root string) *domain.Settings {
	return &domain.Settings{
		Vault: domain.VaultSettings{Root: root, ConfigFileName: domain.DirectoryConfigFileName},
		Cache: domain.CacheSettings{
			Enabled:    true,
			MaxEntries: domain.DefaultMaxCachedFiles,
			BatchDelay: domain.DefaultBatchDelay,
		},
		Workers: domain.WorkerSettings{
			Enabled:          true,
			Parallelism:      2,
			MaxAttempts:      domain.DefaultMaxAttempts,
			RetryBaseDelay:   domain.DefaultRetryBaseDelay,
			FailureThreshold: domain.DefaultFailureThreshold,
			Cooldown:         domain.DefaultBreakerCooldown,
		},
		Project: domain.ProjectSettings{MetadataKey: "project", MetadataDetection: true, ConfigFileDetection: true},
		Log:     domain.LogSettings{Level: "info"},
	}
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockSettingsLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	application := app.New(mockLoader, mockLogger, nil, nil)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{
			App:    application,
			Logger: mockLogger,
		}, func() {}, nil
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)
	assert.Equal(t, 0, exitCode)
}

// TestRun_Get verifies that a command reaches the app and writes to the configured output.
func TestRun_Get(t *testing.T) {
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Work"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Work", domain.DirectoryConfigFileName), []byte("project: Work\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Work", "todo.md"), []byte("- [ ] ship\n"), 0o600))

	mockLoader := mocks.NewMockSettingsLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLoader.EXPECT().Load("").Return(defaultSettings(root), nil)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()

	out := new(bytes.Buffer)
	application := app.New(mockLoader, mockLogger, nil, nil)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"get", "Work/todo.md"}, new(bytes.Buffer), provider,
		func(a *app.App) { a.WithOutput(out) })
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, out.String(), `"name": "Work"`)
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockSettingsLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLoader.EXPECT().Load("").Return(nil, errors.New("broken settings"))
	mockLogger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, "broken settings")
	})

	application := app.New(mockLoader, mockLogger, nil, nil)
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"stats"}, new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}
