package config_test

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tasklens/internal/adapters/config"
	"go.trai.ch/tasklens/internal/adapters/logger"
	"go.trai.ch/tasklens/internal/core/domain"
)

func newLoader(t *testing.T, dir string) *config.Loader {
	t.Helper()
	lg := logger.New()
	lg.SetOutput(io.Discard)
	return config.NewLoader(lg, dir)
}

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	settings, err := newLoader(t, t.TempDir()).Load("")
	require.NoError(t, err)

	assert.Equal(t, ".", settings.Vault.Root)
	assert.Equal(t, domain.DirectoryConfigFileName, settings.Vault.ConfigFileName)
	assert.True(t, settings.Cache.Enabled)
	assert.Equal(t, domain.DefaultMaxCachedFiles, settings.Cache.MaxEntries)
	assert.Equal(t, domain.DefaultBatchDelay, settings.Cache.BatchDelay)
	assert.True(t, settings.Workers.Enabled)
	assert.Equal(t, runtime.NumCPU(), settings.Workers.Parallelism)
	assert.Equal(t, domain.DefaultMaxAttempts, settings.Workers.MaxAttempts)
	assert.Equal(t, domain.DefaultRetryBaseDelay, settings.Workers.RetryBaseDelay)
	assert.Equal(t, domain.DefaultFailureThreshold, settings.Workers.FailureThreshold)
	assert.Equal(t, domain.DefaultBreakerCooldown, settings.Workers.Cooldown)
	assert.Equal(t, "project", settings.Project.MetadataKey)
	assert.True(t, settings.Project.MetadataDetection)
	assert.True(t, settings.Project.ConfigFileDetection)
	assert.Equal(t, "info", settings.Log.Level)
	assert.Empty(t, settings.Metrics.Address)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `
vault:
  root: notes
cache:
  max_entries: 50
  batch_delay: 250ms
  refresh_schedule: "@every 5m"
workers:
  parallelism: 2
  cooldown: 1m
project:
  metadata_key: proj
  path_mappings:
    - pattern: "Work/*"
      project: Work
      enabled: true
  detection_methods:
    - type: tag
      property_key: tags
      enabled: true
    - type: link
      link_filter: Projects/
      enabled: true
  metadata_mappings:
    - source_key: due_date
      target_key: due
      enabled: true
  default_naming:
    enabled: true
    strategy: foldername
log:
  level: debug
  json: true
`)

	settings, err := newLoader(t, dir).Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "notes"), settings.Vault.Root)
	assert.Equal(t, 50, settings.Cache.MaxEntries)
	assert.Equal(t, 250*time.Millisecond, settings.Cache.BatchDelay)
	assert.Equal(t, "@every 5m", settings.Cache.RefreshSchedule)
	assert.Equal(t, 2, settings.Workers.Parallelism)
	assert.Equal(t, time.Minute, settings.Workers.Cooldown)
	assert.Equal(t, domain.DefaultMaxAttempts, settings.Workers.MaxAttempts)
	assert.Equal(t, "proj", settings.Project.MetadataKey)
	assert.Equal(t, []domain.PathMapping{{Pattern: "Work/*", Project: "Work", Enabled: true}}, settings.Project.PathMappings)
	require.Len(t, settings.Project.DetectionMethods, 2)
	assert.Equal(t, "link", settings.Project.DetectionMethods[1].Type)
	assert.Equal(t, "Projects/", settings.Project.DetectionMethods[1].LinkFilter)
	assert.Equal(t, []domain.MetadataMapping{{SourceKey: "due_date", TargetKey: "due", Enabled: true}}, settings.Project.MetadataMappings)
	assert.Equal(t, "foldername", settings.Project.DefaultNaming.Strategy)
	assert.Equal(t, "debug", settings.Log.Level)
	assert.True(t, settings.Log.JSON)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vault:\n  root: /srv/vault\n"), 0o600))

	settings, err := newLoader(t, t.TempDir()).Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/vault", settings.Vault.Root)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "workers:\n  enabled: true\n  max_attempts: 5\n")
	t.Setenv("TASKLENS_WORKERS_ENABLED", "false")
	t.Setenv("TASKLENS_WORKERS_MAX_ATTEMPTS", "7")
	t.Setenv("TASKLENS_LOG_LEVEL", "warn")

	settings, err := newLoader(t, dir).Load("")
	require.NoError(t, err)

	assert.False(t, settings.Workers.Enabled)
	assert.Equal(t, 7, settings.Workers.MaxAttempts)
	assert.Equal(t, "warn", settings.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := newLoader(t, "").Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "vault: [unterminated\n")

	_, err := newLoader(t, dir).Load("")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigReadFailed.Error())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "zero max entries", content: "cache:\n  max_entries: 0\n"},
		{name: "zero attempts", content: "workers:\n  max_attempts: 0\n"},
		{name: "unknown log level", content: "log:\n  level: loud\n"},
		{name: "unknown detection type", content: "project:\n  detection_methods:\n    - type: color\n      property_key: x\n"},
		{name: "metadata method without key", content: "project:\n  detection_methods:\n    - type: metadata\n"},
		{name: "mapping without project", content: "project:\n  path_mappings:\n    - pattern: Work\n"},
		{name: "unknown naming strategy", content: "project:\n  default_naming:\n    strategy: random\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSettings(t, dir, tt.content)

			_, err := newLoader(t, dir).Load("")
			require.Error(t, err)
			assert.ErrorContains(t, err, domain.ErrConfigInvalid.Error())
		})
	}
}
