package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.trai.ch/tasklens/internal/adapters/metrics"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// WatchOptions configure Watch.
type WatchOptions struct {
	Options
	// MetricsAddress overrides the configured metrics address when set.
	MetricsAddress string
}

// Watch keeps the cache in sync with the vault until ctx is done.
// It warms the cache, applies file events, refreshes stale entries on the configured schedule
// and serves Prometheus metrics when an address is configured.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	s, err := a.open(opts.Options)
	if err != nil {
		return err
	}
	defer a.closeSession(s)

	if a.newWatcher == nil {
		return zerr.With(domain.ErrWatcherStart, "reason", "no watcher configured")
	}
	w, err := a.newWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatcherStart.Error())
	}
	defer func() { _ = w.Stop() }()

	paths, err := s.selectPaths(ctx, nil, true)
	if err != nil {
		return err
	}
	warmed := s.orch.BatchCompute(ctx, paths)
	a.logger.Info(fmt.Sprintf("watching %s (%d files cached)", s.settings.Vault.Root, len(warmed)))

	if schedule := s.settings.Cache.RefreshSchedule; schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(schedule, func() {
			if n := s.cache.RefreshStaleEntries(ctx); n > 0 {
				a.logger.Debug(fmt.Sprintf("refreshed %d stale entries", n))
			}
		}); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigInvalid.Error()), "refresh_schedule", schedule)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
	}

	g, ctx := errgroup.WithContext(ctx)

	addr := opts.MetricsAddress
	if addr == "" {
		addr = s.settings.Metrics.Address
	}
	if addr != "" {
		reg := metrics.NewRegistry(metrics.NewCollector(s.cache, s.orch))
		g.Go(func() error {
			return metrics.Serve(ctx, addr, reg, a.logger)
		})
	}

	if err := w.Start(ctx, s.settings.Vault.Root); err != nil {
		return err
	}

	g.Go(func() error {
		for event := range w.Events() {
			a.logger.Debug(describe(event))
			s.cache.Handle(ctx, event)
		}
		return nil
	})

	err = g.Wait()
	s.cache.Flush(context.WithoutCancel(ctx))
	return err
}

func describe(event domain.FileLifecycleEvent) string {
	switch e := event.(type) {
	case domain.FileCreated:
		return "created " + e.Path
	case domain.FileModified:
		return "modified " + e.Path
	case domain.FileDeleted:
		return "deleted " + e.Path
	case domain.FileRenamed:
		return "renamed " + e.OldPath + " to " + e.NewPath
	default:
		return fmt.Sprintf("unknown event %T", event)
	}
}
