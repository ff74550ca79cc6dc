package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tasklens/internal/adapters/config"
	"go.trai.ch/tasklens/internal/adapters/logger"
	"go.trai.ch/tasklens/internal/app"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
)

type fixture struct {
	app     *app.App
	watcher *fakeWatcher
	out     *bytes.Buffer
	logs    *bytes.Buffer
	vault   string
	options app.Options
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

// newFixture builds an App over a temporary vault. settings is written to tasklens.yaml when non-empty.
func newFixture(t *testing.T, settings string) *fixture {
	t.Helper()

	vaultDir := t.TempDir()
	writeFile(t, vaultDir, "Projects/A/task-genius.config.md", "project: Alpha\narea: home\n")
	writeFile(t, vaultDir, "Projects/A/note.md", "---\narea: work\n---\n- [ ] draft plan\n- [x] send invite\n")
	writeFile(t, vaultDir, "Inbox/loose.md", "- [ ] sort inbox\n")

	configDir := t.TempDir()
	if settings != "" {
		writeFile(t, configDir, domain.SettingsFileName, settings)
	}

	logs := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(logs)

	out := &bytes.Buffer{}
	w := &fakeWatcher{events: make(chan domain.FileLifecycleEvent, 4)}
	a := app.New(config.NewLoader(lg, configDir), lg, nil, func() (ports.Watcher, error) {
		return w, nil
	}).WithOutput(out)
	return &fixture{
		app:     a,
		watcher: w,
		out:     out,
		logs:    logs,
		vault:   vaultDir,
		options: app.Options{VaultRoot: vaultDir},
	}
}

func TestApp_Get(t *testing.T) {
	f := newFixture(t, "")

	require.NoError(t, f.app.Get(t.Context(), f.options, "Projects/A/note.md"))

	var got map[string]struct {
		Project struct {
			Name   string `json:"name"`
			Source string `json:"source"`
		} `json:"project"`
		EnhancedMetadata map[string]any `json:"enhancedMetadata"`
		ConfigSource     string         `json:"configSource"`
	}
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	require.Contains(t, got, "Projects/A/note.md")

	data := got["Projects/A/note.md"]
	assert.Equal(t, "Alpha", data.Project.Name)
	assert.Equal(t, "config", data.Project.Source)
	assert.Equal(t, "Projects/A/task-genius.config.md", data.ConfigSource)
	assert.Equal(t, map[string]any{"project": "Alpha", "area": "work"}, data.EnhancedMetadata)
}

func TestApp_Get_AbsolutePath(t *testing.T) {
	f := newFixture(t, "")

	abs := filepath.Join(f.vault, "Projects", "A", "note.md")
	require.NoError(t, f.app.Get(t.Context(), f.options, abs))
	assert.Contains(t, f.out.String(), `"Projects/A/note.md"`)
}

func TestApp_Get_Missing(t *testing.T) {
	f := newFixture(t, "")

	err := f.app.Get(t.Context(), f.options, "Projects/A/absent.md")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrFileNotFound.Error())
}

func TestApp_Batch(t *testing.T) {
	for _, noWorkers := range []bool{false, true} {
		t.Run(map[bool]string{false: "workers", true: "no workers"}[noWorkers], func(t *testing.T) {
			f := newFixture(t, "")
			opts := f.options
			opts.NoWorkers = noWorkers

			require.NoError(t, f.app.Batch(t.Context(), opts, nil, true))

			var got map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
			assert.ElementsMatch(t, []string{"Inbox/loose.md", "Projects/A/note.md"}, keys(got))
		})
	}
}

func TestApp_Batch_Table(t *testing.T) {
	f := newFixture(t, "")
	opts := f.options
	opts.Format = app.FormatTable

	require.NoError(t, f.app.Batch(t.Context(), opts, []string{"Projects/A/note.md"}, false))

	out := f.out.String()
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "Projects/A/note.md")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "area=work")
}

func TestApp_Batch_NoPaths(t *testing.T) {
	f := newFixture(t, "")

	err := f.app.Batch(t.Context(), f.options, nil, false)
	assert.ErrorIs(t, err, domain.ErrNoPathsSpecified)
}

func TestApp_UnsupportedFormat(t *testing.T) {
	f := newFixture(t, "")
	opts := f.options
	opts.Format = "xml"

	err := f.app.Get(t.Context(), opts, "Projects/A/note.md")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnsupportedFormat.Error())
}

func TestApp_Parse(t *testing.T) {
	f := newFixture(t, "")

	require.NoError(t, f.app.Parse(t.Context(), f.options, []string{"Projects/A/note.md"}, false, domain.PriorityHigh))

	var got map[string][]struct {
		Content   string `json:"content"`
		Line      int    `json:"line"`
		Completed bool   `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	tasks := got["Projects/A/note.md"]
	require.Len(t, tasks, 2)
	assert.Equal(t, "draft plan", tasks[0].Content)
	assert.Equal(t, 4, tasks[0].Line)
	assert.True(t, tasks[1].Completed)
}

func TestApp_Parse_AllTable(t *testing.T) {
	f := newFixture(t, "")
	opts := f.options
	opts.Format = app.FormatTable
	opts.NoWorkers = true

	require.NoError(t, f.app.Parse(t.Context(), opts, nil, true, domain.PriorityNormal))

	out := f.out.String()
	assert.Contains(t, out, "sort inbox")
	assert.Contains(t, out, "draft plan")
	assert.Contains(t, out, "[x]")
}

func TestApp_Stats(t *testing.T) {
	f := newFixture(t, "")

	require.NoError(t, f.app.Stats(t.Context(), f.options))

	var got struct {
		Cache        domain.CacheStatistics `json:"cache"`
		Orchestrator struct {
			WorkersEnabled bool `json:"workersEnabled"`
			TotalOps       int  `json:"totalOperations"`
		} `json:"orchestrator"`
	}
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	assert.Equal(t, 2, got.Cache.TotalFiles)
	assert.Equal(t, 2, got.Cache.CachedFiles)
	assert.Equal(t, 2, got.Cache.ConfigCacheHits)
	assert.Equal(t, 2, got.Cache.FileCacheSize)
	assert.True(t, got.Orchestrator.WorkersEnabled)
	assert.Equal(t, 2, got.Orchestrator.TotalOps)
}

func TestApp_Stats_Table(t *testing.T) {
	f := newFixture(t, "")
	opts := f.options
	opts.Format = app.FormatTable

	require.NoError(t, f.app.Stats(t.Context(), opts))

	out := f.out.String()
	assert.Contains(t, out, "Cache")
	assert.Contains(t, out, "Cache hits")
	assert.Contains(t, out, "Orchestrator")
	assert.Contains(t, out, "closed (0 failures)")
}

func TestApp_InvalidVaultRoot(t *testing.T) {
	f := newFixture(t, "")
	opts := f.options
	opts.VaultRoot = filepath.Join(f.vault, "missing")

	err := f.app.Get(t.Context(), opts, "a.md")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidVaultPath.Error())
}

func TestApp_InvalidSettings(t *testing.T) {
	f := newFixture(t, "cache:\n  max_entries: -1\n")

	err := f.app.Get(t.Context(), f.options, "Projects/A/note.md")
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load settings")
}

type fakeWatcher struct {
	root   string
	events chan domain.FileLifecycleEvent
}

func (w *fakeWatcher) Start(_ context.Context, root string) error {
	w.root = root
	return nil
}

func (w *fakeWatcher) Stop() error { return nil }

func (w *fakeWatcher) Events() iter.Seq[domain.FileLifecycleEvent] {
	return func(yield func(domain.FileLifecycleEvent) bool) {
		for e := range w.events {
			if !yield(e) {
				return
			}
		}
	}
}

func TestApp_Watch(t *testing.T) {
	f := newFixture(t, "log:\n  level: debug\ncache:\n  refresh_schedule: \"@every 1h\"\n")
	w := f.watcher

	require.NoError(t, os.Remove(filepath.Join(f.vault, "Inbox", "loose.md")))
	w.events <- domain.FileDeleted{Path: "Inbox/loose.md"}
	w.events <- domain.FileRenamed{OldPath: "Projects/A/note.md", NewPath: "Projects/A/plan.md"}
	close(w.events)

	require.NoError(t, f.app.Watch(t.Context(), app.WatchOptions{Options: f.options}))

	assert.Equal(t, f.vault, w.root)
	logs := f.logs.String()
	assert.Contains(t, logs, "watching")
	assert.Contains(t, logs, "deleted Inbox/loose.md")
	assert.Contains(t, logs, "renamed Projects/A/note.md to Projects/A/plan.md")
}

func TestApp_Watch_InvalidSchedule(t *testing.T) {
	f := newFixture(t, "cache:\n  refresh_schedule: every now and then\n")
	err := f.app.Watch(t.Context(), app.WatchOptions{Options: f.options})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigInvalid.Error())
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
