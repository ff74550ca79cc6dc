// Package worker runs task parsing and project data computation on a pool of goroutines.
package worker

import (
	"context"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const defaultQueueSize = 256

// Deps are the collaborators used by pool jobs.
type Deps struct {
	Vault    ports.Vault
	Metadata ports.MetadataService
	Parser   ports.FallbackParser
	Derived  ports.DerivedDataSource
	Logger   ports.Logger
}

// Pool is a fixed set of goroutines fed by three priority queues.
// It implements both ports.TaskWorker and ports.ProjectWorker.
type Pool struct {
	deps    Deps
	workers int

	high   chan *job
	normal chan *job
	low    chan *job

	quit      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	wg        sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	pending   atomic.Int64
}

var (
	_ ports.TaskWorker    = (*Pool)(nil)
	_ ports.ProjectWorker = (*Pool)(nil)
)

type job struct {
	id   uuid.UUID
	ctx  context.Context
	run  func(context.Context) error
	done chan error
}

// NewPool starts a pool with the given number of goroutines. Values below one start a single goroutine.
func NewPool(deps Deps, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{
		deps:    deps,
		workers: workers,
		high:    make(chan *job, defaultQueueSize),
		normal:  make(chan *job, defaultQueueSize),
		low:     make(chan *job, defaultQueueSize),
		quit:    make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.loop()
	}
	return p
}

// ProcessFile parses the tasks of one file. Non-markdown files have no tasks.
func (p *Pool) ProcessFile(ctx context.Context, file string, priority domain.Priority) ([]domain.Task, error) {
	var tasks []domain.Task
	err := p.submit(ctx, priority, func(ctx context.Context) error {
		var err error
		tasks, err = p.parse(ctx, file)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ProcessBatch parses every path concurrently. Files that fail map to an empty slice.
// It only fails when the pool is closed or ctx is done.
func (p *Pool) ProcessBatch(ctx context.Context, paths []string, priority domain.Priority) (map[string][]domain.Task, error) {
	results := make([][]domain.Task, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range paths {
		g.Go(func() error {
			tasks, err := p.ProcessFile(gctx, file, priority)
			if err != nil {
				if p.closed.Load() || gctx.Err() != nil {
					return err
				}
				p.deps.Logger.Error(err)
				tasks = []domain.Task{}
			}
			results[i] = tasks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]domain.Task, len(paths))
	for i, file := range paths {
		out[file] = results[i]
	}
	return out, nil
}

// GetProjectData computes the derived data of one file.
func (p *Pool) GetProjectData(ctx context.Context, file string) (domain.FileDerivedData, bool, error) {
	var (
		data domain.FileDerivedData
		ok   bool
	)
	err := p.submit(ctx, domain.PriorityNormal, func(ctx context.Context) error {
		data, ok = p.deps.Derived.Get(ctx, file)
		return nil
	})
	return data, ok, err
}

// GetBatchProjectData computes the derived data of several files in a single job.
func (p *Pool) GetBatchProjectData(ctx context.Context, paths []string) (map[string]domain.FileDerivedData, error) {
	var out map[string]domain.FileDerivedData
	err := p.submit(ctx, domain.PriorityNormal, func(ctx context.Context) error {
		out = p.deps.Derived.GetBatch(ctx, paths)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = make(map[string]domain.FileDerivedData)
	}
	return out, nil
}

// PendingCount returns the number of jobs queued or running.
func (p *Pool) PendingCount() int {
	return int(p.pending.Load())
}

// Stats returns the pool counters.
func (p *Pool) Stats() domain.WorkerStats {
	return domain.WorkerStats{
		Workers:   p.workers,
		Submitted: int(p.submitted.Load()),
		Completed: int(p.completed.Load()),
		Failed:    int(p.failed.Load()),
		Pending:   int(p.pending.Load()),
	}
}

// Close stops the pool. Queued jobs fail with domain.ErrWorkerClosed. Close is idempotent.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.quit)
		p.wg.Wait()
	})
	return nil
}

func (p *Pool) submit(ctx context.Context, priority domain.Priority, run func(context.Context) error) error {
	if p.closed.Load() {
		return domain.ErrWorkerClosed
	}

	j := &job{id: uuid.New(), ctx: ctx, run: run, done: make(chan error, 1)}
	p.pending.Add(1)
	p.submitted.Add(1)

	select {
	case p.queue(priority) <- j:
	case <-ctx.Done():
		p.pending.Add(-1)
		return ctx.Err()
	case <-p.quit:
		p.pending.Add(-1)
		return domain.ErrWorkerClosed
	}

	select {
	case err := <-j.done:
		if err != nil {
			return zerr.With(err, "job_id", j.id.String())
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return domain.ErrWorkerClosed
	}
}

func (p *Pool) queue(priority domain.Priority) chan *job {
	switch priority {
	case domain.PriorityHigh:
		return p.high
	case domain.PriorityLow:
		return p.low
	default:
		return p.normal
	}
}

// loop prefers high over normal over low when several jobs are queued.
func (p *Pool) loop() {
	defer p.wg.Done()
	for {
		var j *job
		select {
		case <-p.quit:
			return
		case j = <-p.high:
		default:
			select {
			case <-p.quit:
				return
			case j = <-p.high:
			case j = <-p.normal:
			default:
				select {
				case <-p.quit:
					return
				case j = <-p.high:
				case j = <-p.normal:
				case j = <-p.low:
				}
			}
		}
		p.execute(j)
	}
}

func (p *Pool) execute(j *job) {
	defer p.pending.Add(-1)

	err := j.ctx.Err()
	if err == nil {
		err = j.run(j.ctx)
	}
	if err != nil {
		p.failed.Add(1)
	} else {
		p.completed.Add(1)
	}
	j.done <- err
}

func (p *Pool) parse(ctx context.Context, file string) ([]domain.Task, error) {
	if !strings.EqualFold(path.Ext(file), ".md") {
		return []domain.Task{}, nil
	}

	content, err := p.deps.Vault.Read(ctx, file)
	if err != nil {
		return nil, err
	}

	var frontmatter domain.ConfigRecord
	if meta, ok := p.deps.Metadata.GetCache(ctx, file); ok && meta != nil {
		frontmatter = meta.Frontmatter
	}

	tasks, err := p.deps.Parser.Parse(content, file, frontmatter)
	if err != nil {
		return nil, zerr.With(err, "path", file)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}
