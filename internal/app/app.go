// Package app implements the application layer for tasklens.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader     ports.SettingsLoader
	logger     ports.Logger
	tracer     trace.TracerProvider
	out        io.Writer
	clock      clockwork.Clock
	newWatcher ports.WatcherFactory
}

// New creates a new App instance. A nil tracer keeps the global OpenTelemetry provider.
func New(
	loader ports.SettingsLoader,
	log ports.Logger,
	tracer trace.TracerProvider,
	watchers ports.WatcherFactory,
) *App {
	return &App{
		loader:     loader,
		logger:     log,
		tracer:     tracer,
		out:        os.Stdout,
		clock:      clockwork.NewRealClock(),
		newWatcher: watchers,
	}
}

// WithOutput redirects command results to w.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithClock replaces the clock used by the cache and the orchestrator.
func (a *App) WithClock(clock clockwork.Clock) *App {
	a.clock = clock
	return a
}

// Options are shared by every command.
type Options struct {
	// ConfigPath is the settings file. Empty searches the working directory.
	ConfigPath string
	// VaultRoot overrides the configured vault root when set.
	VaultRoot string
	// NoWorkers runs every operation on the calling goroutine.
	NoWorkers bool
	// Format is "json" or "table".
	Format string
}

// Get prints the derived project data of one file.
func (a *App) Get(ctx context.Context, opts Options, file string) error {
	s, err := a.open(opts)
	if err != nil {
		return err
	}
	defer a.closeSession(s)

	p := s.vaultPath(file)
	data, ok := s.orch.ComputeProjectData(ctx, p)
	if !ok {
		return zerr.With(domain.ErrFileNotFound, "path", p)
	}
	return a.render(opts.Format, map[string]domain.FileDerivedData{p: data})
}

// Batch prints the derived project data of several files. With all set, every vault file is included.
func (a *App) Batch(ctx context.Context, opts Options, files []string, all bool) error {
	s, err := a.open(opts)
	if err != nil {
		return err
	}
	defer a.closeSession(s)

	paths, err := s.selectPaths(ctx, files, all)
	if err != nil {
		return err
	}
	return a.render(opts.Format, s.orch.BatchCompute(ctx, paths))
}

// Parse prints the tasks of one or more files.
func (a *App) Parse(ctx context.Context, opts Options, files []string, all bool, priority domain.Priority) error {
	s, err := a.open(opts)
	if err != nil {
		return err
	}
	defer a.closeSession(s)

	paths, err := s.selectPaths(ctx, files, all)
	if err != nil {
		return err
	}

	var tasks map[string][]domain.Task
	if len(paths) == 1 {
		tasks = map[string][]domain.Task{paths[0]: s.orch.ParseFileTasks(ctx, paths[0], priority)}
	} else {
		tasks = s.orch.BatchParse(ctx, paths, priority)
	}
	return a.renderTasks(opts.Format, tasks)
}

// Stats computes every vault file twice, the second pass served from the cache, and prints the counters.
func (a *App) Stats(ctx context.Context, opts Options) error {
	s, err := a.open(opts)
	if err != nil {
		return err
	}
	defer a.closeSession(s)

	paths, err := s.selectPaths(ctx, nil, true)
	if err != nil {
		return err
	}
	s.orch.BatchCompute(ctx, paths)
	s.orch.BatchCompute(ctx, paths)

	return a.renderStats(opts.Format, s.cache.Stats(), s.orch.GetMetrics())
}

func (a *App) closeSession(s *session) {
	if err := s.close(); err != nil {
		a.logger.Error(err)
	}
}

// vaultPath turns a command-line path into a vault-relative one.
func vaultPath(root, arg string) string {
	if filepath.IsAbs(arg) {
		if absRoot, err := filepath.Abs(root); err == nil {
			if rel, err := filepath.Rel(absRoot, arg); err == nil && !strings.HasPrefix(rel, "..") {
				arg = rel
			}
		}
	}
	arg = filepath.ToSlash(filepath.Clean(arg))
	return strings.TrimPrefix(arg, "./")
}

func (s *session) vaultPath(arg string) string {
	return vaultPath(s.settings.Vault.Root, arg)
}

func (s *session) selectPaths(ctx context.Context, files []string, all bool) ([]string, error) {
	if !all {
		if len(files) == 0 {
			return nil, domain.ErrNoPathsSpecified
		}
		paths := make([]string, 0, len(files))
		for _, f := range files {
			paths = append(paths, s.vaultPath(f))
		}
		return paths, nil
	}

	entries, err := s.vault.Files(ctx)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.EqualFold(filepath.Ext(e.Path), ".md") && !s.configs.IsConfigPath(e.Path) {
			paths = append(paths, e.Path)
		}
	}
	slices.Sort(paths)
	return paths, nil
}
