package app

import (
	"os"

	"go.trai.ch/tasklens/internal/adapters/dirconfig"
	"go.trai.ch/tasklens/internal/adapters/frontmatter"
	"go.trai.ch/tasklens/internal/adapters/parser"
	"go.trai.ch/tasklens/internal/adapters/project"
	"go.trai.ch/tasklens/internal/adapters/vault"
	"go.trai.ch/tasklens/internal/adapters/worker"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/engine/derived"
	"go.trai.ch/tasklens/internal/engine/orchestrator"
	"go.trai.ch/tasklens/internal/engine/resilience"
	"go.trai.ch/zerr"
)

// levelSetter is implemented by loggers whose level and format can change after construction.
type levelSetter interface {
	SetLevel(name string)
	SetJSON(enable bool)
}

// session is the engine built from one settings load.
type session struct {
	settings *domain.Settings
	vault    *vault.FSVault
	configs  *dirconfig.Source
	cache    *derived.Cache
	orch     *orchestrator.Orchestrator
}

// open loads the settings and builds the cache, the worker pool and the orchestrator.
func (a *App) open(opts Options) (*session, error) {
	settings, err := a.loader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load settings")
	}
	if opts.VaultRoot != "" {
		settings.Vault.Root = opts.VaultRoot
	}
	if opts.NoWorkers {
		settings.Workers.Enabled = false
	}

	if ls, ok := a.logger.(levelSetter); ok {
		ls.SetLevel(settings.Log.Level)
		ls.SetJSON(settings.Log.JSON)
	}

	info, err := os.Stat(settings.Vault.Root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidVaultPath.Error()), "root", settings.Vault.Root)
	}
	if !info.IsDir() {
		return nil, zerr.With(domain.ErrInvalidVaultPath, "root", settings.Vault.Root)
	}

	v := vault.NewOS(settings.Vault.Root)
	meta := frontmatter.NewService(v, a.logger)
	configs := dirconfig.NewSource(v, meta, settings.Vault.ConfigFileName)

	resolver, err := project.NewResolver(settings.Project)
	if err != nil {
		return nil, err
	}

	cache, err := derived.NewCache(v, meta, configs, resolver, a.logger,
		derived.WithClock(a.clock),
		derived.WithMaxEntries(settings.Cache.MaxEntries),
		derived.WithBatchDelay(settings.Cache.BatchDelay),
	)
	if err != nil {
		return nil, err
	}
	cache.SetEnabled(settings.Cache.Enabled)

	fallback := parser.New(settings.Project.MetadataKey)
	deps := orchestrator.Collaborators{
		Vault:    v,
		Metadata: meta,
		Parser:   fallback,
		Derived:  cache,
		Logger:   a.logger,
	}
	if settings.Workers.Enabled {
		pool := worker.NewPool(worker.Deps{
			Vault:    v,
			Metadata: meta,
			Parser:   fallback,
			Derived:  cache,
			Logger:   a.logger,
		}, settings.Workers.Parallelism)
		deps.Tasks = pool
		deps.Projects = pool
	}

	orchOpts := []orchestrator.Option{
		orchestrator.WithRetryPolicy(resilience.RetryPolicy{
			MaxAttempts: settings.Workers.MaxAttempts,
			BaseDelay:   settings.Workers.RetryBaseDelay,
		}),
		orchestrator.WithBreaker(settings.Workers.FailureThreshold, settings.Workers.Cooldown),
		orchestrator.WithClock(a.clock),
	}
	if a.tracer != nil {
		orchOpts = append(orchOpts, orchestrator.WithTracerProvider(a.tracer))
	}

	return &session{
		settings: settings,
		vault:    v,
		configs:  configs,
		cache:    cache,
		orch:     orchestrator.New(deps, orchOpts...),
	}, nil
}

func (s *session) close() error {
	s.cache.Close()
	return s.orch.Destroy()
}
