// Package derived implements the file and directory level cache of derived project data.
package derived

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"github.com/jonboulle/clockwork"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/zerr"
)

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the clock used for compute timestamps and the debounce window.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

// WithMaxEntries bounds the number of cached files.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		c.maxEntries = n
	}
}

// WithBatchDelay sets the debounce window of scheduled batch updates.
func WithBatchDelay(d time.Duration) Option {
	return func(c *Cache) {
		c.batchDelay = d
	}
}

// Cache stores derived data per file and parsed config snapshots per directory.
// Lookups and computes run outside the lock; concurrent computes of one path are last-writer-wins.
type Cache struct {
	vault    ports.Vault
	meta     ports.MetadataService
	configs  ports.DirectoryConfigSource
	resolver ports.ProjectResolver
	logger   ports.Logger

	clock      clockwork.Clock
	maxEntries int
	batchDelay time.Duration
	updates    *Debouncer

	mu      sync.Mutex
	files   *simplelru.LRU[string, domain.FileDerivedData]
	dirs    map[string]*domain.DirectoryCacheEntry
	stats   domain.CacheStatistics
	enabled bool
}

// NewCache creates an enabled cache.
func NewCache(
	vault ports.Vault,
	meta ports.MetadataService,
	configs ports.DirectoryConfigSource,
	resolver ports.ProjectResolver,
	logger ports.Logger,
	opts ...Option,
) (*Cache, error) {
	c := &Cache{
		vault:      vault,
		meta:       meta,
		configs:    configs,
		resolver:   resolver,
		logger:     logger,
		clock:      clockwork.NewRealClock(),
		maxEntries: domain.DefaultMaxCachedFiles,
		batchDelay: domain.DefaultBatchDelay,
		dirs:       make(map[string]*domain.DirectoryCacheEntry),
		enabled:    true,
	}
	for _, opt := range opts {
		opt(c)
	}

	files, err := simplelru.NewLRU(c.maxEntries, c.untrack)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create file cache"), "max_entries", c.maxEntries)
	}
	c.files = files
	c.updates = NewDebouncer(c.batchDelay, c.clock, c.processBatch)
	return c, nil
}

// Get returns the derived data of path, computing and caching it when no valid entry exists.
func (c *Cache) Get(ctx context.Context, path string) (domain.FileDerivedData, bool) {
	if !c.Enabled() {
		return domain.FileDerivedData{}, false
	}
	if data, ok := c.cached(path); ok {
		return data, true
	}
	if _, ok := c.vault.Lookup(path); !ok {
		c.Invalidate(path)
		return domain.FileDerivedData{}, false
	}

	snap, err := c.directory(ctx, domain.ParentDir(path))
	if err != nil {
		c.logger.Error(err)
		return domain.FileDerivedData{}, false
	}
	data, err := c.compute(ctx, path, snap)
	if err != nil {
		c.logger.Error(err)
		return domain.FileDerivedData{}, false
	}
	c.store(path, data)
	return data, true
}

// GetBatch returns the derived data of every path that exists and could be computed.
// Paths needing a compute are grouped by directory so each directory is resolved once per call.
func (c *Cache) GetBatch(ctx context.Context, paths []string) map[string]domain.FileDerivedData {
	result := make(map[string]domain.FileDerivedData, len(paths))
	if !c.Enabled() {
		return result
	}

	var order []string
	groups := make(map[string][]string)
	seen := make(map[string]struct{}, len(paths))
	hits := 0

	for _, p := range paths {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		if data, ok := c.cached(p); ok {
			result[p] = data
			hits++
			continue
		}
		if _, ok := c.vault.Lookup(p); !ok {
			c.Invalidate(p)
			continue
		}
		dir := domain.ParentDir(p)
		if _, ok := groups[dir]; !ok {
			order = append(order, dir)
		}
		groups[dir] = append(groups[dir], p)
	}

	for _, dir := range order {
		if ctx.Err() != nil {
			break
		}
		snap, err := c.directory(ctx, dir)
		if err != nil {
			c.logger.Error(err)
			continue
		}
		for _, p := range groups[dir] {
			data, err := c.compute(ctx, p, snap)
			if err != nil {
				c.logger.Error(err)
				continue
			}
			c.store(p, data)
			result[p] = data
		}
	}

	c.mu.Lock()
	c.stats.TotalFiles = len(paths)
	c.stats.CachedFiles = hits
	c.stats.ConfigCacheHits += hits
	c.stats.LastUpdateTime = c.clock.Now().UnixMilli()
	c.mu.Unlock()

	return result
}

// Preload computes every path that has no cache entry yet.
func (c *Cache) Preload(ctx context.Context, paths []string) {
	missing := make([]string, 0, len(paths))
	c.mu.Lock()
	for _, p := range paths {
		if !c.files.Contains(p) {
			missing = append(missing, p)
		}
	}
	c.mu.Unlock()

	if len(missing) > 0 {
		c.GetBatch(ctx, missing)
	}
}

// Set stores externally computed data for path.
// The entry is tracked under its directory when that directory's snapshot is cached.
func (c *Cache) Set(path string, data domain.FileDerivedData) {
	c.store(path, data)
}

// Invalidate drops the entry of path and its directory tracking reference.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files.Remove(path)
}

// InvalidateDirectory drops the snapshot of dir and every file computed from it.
func (c *Cache) InvalidateDirectory(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropDirectoryLocked(dir)
}

// InvalidateAll clears every file entry and directory snapshot.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files.Purge()
	clear(c.dirs)
}

// Handle applies a vault lifecycle event to the cache.
func (c *Cache) Handle(ctx context.Context, event domain.FileLifecycleEvent) {
	switch e := event.(type) {
	case domain.FileCreated:
		if c.configs.IsConfigPath(e.Path) {
			c.InvalidateDirectory(domain.ParentDir(e.Path))
		}
		c.Get(ctx, e.Path)
	case domain.FileModified:
		c.Invalidate(e.Path)
		if c.configs.IsConfigPath(e.Path) {
			c.InvalidateDirectory(domain.ParentDir(e.Path))
		}
		c.ScheduleBatchUpdate([]string{e.Path})
	case domain.FileDeleted:
		c.Invalidate(e.Path)
		if c.configs.IsConfigPath(e.Path) {
			c.InvalidateDirectory(domain.ParentDir(e.Path))
		}
	case domain.FileRenamed:
		c.Invalidate(e.OldPath)
		if c.configs.IsConfigPath(e.OldPath) || c.configs.IsConfigPath(e.NewPath) {
			c.InvalidateDirectory(domain.ParentDir(e.OldPath))
			c.InvalidateDirectory(domain.ParentDir(e.NewPath))
		}
		c.Get(ctx, e.NewPath)
	}
}

// OnCreated handles a created file.
func (c *Cache) OnCreated(ctx context.Context, path string) {
	c.Handle(ctx, domain.FileCreated{Path: path})
}

// OnModified handles a modified file.
func (c *Cache) OnModified(ctx context.Context, path string) {
	c.Handle(ctx, domain.FileModified{Path: path})
}

// OnDeleted handles a deleted file.
func (c *Cache) OnDeleted(ctx context.Context, path string) {
	c.Handle(ctx, domain.FileDeleted{Path: path})
}

// OnRenamed handles a file moved from oldPath to newPath.
func (c *Cache) OnRenamed(ctx context.Context, oldPath, newPath string) {
	c.Handle(ctx, domain.FileRenamed{OldPath: oldPath, NewPath: newPath})
}

// ScheduleBatchUpdate queues paths for a debounced invalidate and recompute pass.
func (c *Cache) ScheduleBatchUpdate(paths []string) {
	c.updates.Add(paths...)
}

// ProcessBatchUpdates runs the queued batch update now.
func (c *Cache) ProcessBatchUpdates(ctx context.Context) {
	c.processBatch(ctx, c.updates.Drain())
}

// Flush runs pending work synchronously. It is meant for shutdown.
func (c *Cache) Flush(ctx context.Context) {
	c.updates.Flush(ctx)
}

// RefreshStaleEntries recomputes every entry that failed validation and returns how many were refreshed.
func (c *Cache) RefreshStaleEntries(ctx context.Context) int {
	c.mu.Lock()
	keys := c.files.Keys()
	c.mu.Unlock()

	var stale []string
	for _, p := range keys {
		c.mu.Lock()
		data, ok := c.files.Peek(p)
		c.mu.Unlock()
		if ok && !c.valid(p, data) {
			stale = append(stale, p)
		}
	}
	if len(stale) == 0 {
		return 0
	}

	for _, p := range stale {
		c.Invalidate(p)
	}
	refreshed := c.GetBatch(ctx, stale)
	c.logger.Debug("refreshed stale derived data entries")
	return len(refreshed)
}

// SetEnabled toggles the cache. Disabling clears it; while disabled Get and GetBatch return nothing.
func (c *Cache) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	if !enabled {
		c.files.Purge()
		clear(c.dirs)
	}
}

// Enabled reports whether the cache is enabled.
func (c *Cache) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() domain.CacheStatistics {
	pending := c.updates.Len()

	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.FileCacheSize = c.files.Len()
	s.DirectoryCacheSize = len(c.dirs)
	s.PendingUpdates = pending
	return s
}

// ResetStats zeroes the counters.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = domain.CacheStatistics{}
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.files.Len()
}

// Close cancels pending batch updates.
func (c *Cache) Close() {
	c.updates.Stop()
}

func (c *Cache) processBatch(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}
	for _, p := range paths {
		c.Invalidate(p)
	}
	c.GetBatch(ctx, paths)
}

// cached returns the entry of path when it passes validation.
func (c *Cache) cached(path string) (domain.FileDerivedData, bool) {
	c.mu.Lock()
	data, ok := c.files.Get(path)
	c.mu.Unlock()
	if !ok || !c.valid(path, data) {
		return domain.FileDerivedData{}, false
	}
	return data, true
}

// valid reports whether data is still current for the file and for the config it was computed from.
func (c *Cache) valid(path string, data domain.FileDerivedData) bool {
	file, ok := c.vault.Lookup(path)
	if !ok || file.IsDir || file.ModTime > data.Timestamp {
		return false
	}
	if data.ConfigSource == "" {
		return true
	}
	cfg, ok := c.vault.Lookup(data.ConfigSource)
	return ok && cfg.ModTime <= data.ConfigTimestamp
}

// directory returns the config snapshot of dir, reusing the cached parse while the artifact is unchanged.
func (c *Cache) directory(ctx context.Context, dir string) (domain.DirectorySnapshot, error) {
	c.mu.Lock()
	existing := c.dirs[dir]
	c.mu.Unlock()

	if existing != nil {
		if existing.ConfigPath == "" {
			return snapshotOf(existing), nil
		}
		if artifact, ok := c.vault.Lookup(existing.ConfigPath); ok && artifact.ModTime == existing.ConfigTimestamp {
			c.mu.Lock()
			c.stats.DirectoryCacheHits++
			c.mu.Unlock()
			return snapshotOf(existing), nil
		}
	}

	var snap domain.DirectorySnapshot
	if artifact, ok := c.configs.Find(dir); ok {
		loaded, err := c.configs.Load(ctx, artifact)
		switch {
		case err != nil && ctx.Err() != nil:
			return domain.DirectorySnapshot{}, zerr.With(err, "directory", dir)
		case err != nil:
			// Files still compute from their own metadata until the artifact changes.
			c.logger.Error(zerr.With(err, "directory", dir))
			snap = domain.DirectorySnapshot{Path: artifact.Path, ModTime: artifact.ModTime}
		default:
			snap = loaded
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if current, ok := c.dirs[dir]; ok && current == existing {
		c.dropDirectoryLocked(dir)
	}
	c.dirs[dir] = domain.NewDirectoryCacheEntry(dir, snap)
	return snap, nil
}

// compute derives the data of path from its metadata and the directory snapshot.
func (c *Cache) compute(ctx context.Context, path string, snap domain.DirectorySnapshot) (domain.FileDerivedData, error) {
	if err := ctx.Err(); err != nil {
		return domain.FileDerivedData{}, zerr.With(err, "path", path)
	}

	meta, ok := c.meta.GetCache(ctx, path)
	if !ok || meta == nil {
		meta = &domain.FileMetadata{}
	}

	merged := snap.Data.Merge(meta.Frontmatter)
	data := domain.FileDerivedData{
		Project:          c.resolver.Resolve(path, meta, snap.Data),
		EnhancedMetadata: c.resolver.ApplyMappings(merged),
		Timestamp:        c.clock.Now().UnixMilli(),
		ConfigSource:     snap.Path,
		ConfigTimestamp:  snap.ModTime,
	}
	return data, nil
}

// store caches data for path and tracks it under its directory.
func (c *Cache) store(path string, data domain.FileDerivedData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	if c.files.Add(path, data) {
		c.stats.Evictions++
	}
	if dir, ok := c.dirs[domain.ParentDir(path)]; ok {
		dir.TrackedPaths[path] = struct{}{}
	}
}

// untrack is the eviction callback of the file LRU. It runs with c.mu held.
func (c *Cache) untrack(path string, _ domain.FileDerivedData) {
	if dir, ok := c.dirs[domain.ParentDir(path)]; ok {
		delete(dir.TrackedPaths, path)
	}
}

func (c *Cache) dropDirectoryLocked(dir string) {
	entry, ok := c.dirs[dir]
	if !ok {
		return
	}
	for p := range entry.TrackedPaths {
		c.files.Remove(p)
	}
	delete(c.dirs, dir)
}

func snapshotOf(e *domain.DirectoryCacheEntry) domain.DirectorySnapshot {
	return domain.DirectorySnapshot{
		Path:    e.ConfigPath,
		Data:    e.ConfigData,
		ModTime: e.ConfigTimestamp,
		Digest:  e.Digest,
	}
}
