// Package orchestrator routes parse and project-data requests to background workers,
// retrying failures and falling back to in-process computation.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/tasklens/internal/engine/resilience"
	"go.trai.ch/zerr"
)

const instrumentationName = "go.trai.ch/tasklens/orchestrator"

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRetryPolicy sets the retry policy of worker dispatches.
func WithRetryPolicy(p resilience.RetryPolicy) Option {
	return func(o *Orchestrator) {
		o.retry = p
	}
}

// WithBreaker sets the failure threshold and cooldown of the circuit breaker.
func WithBreaker(threshold int, cooldown time.Duration) Option {
	return func(o *Orchestrator) {
		o.threshold = threshold
		o.cooldown = cooldown
	}
}

// WithClock sets the clock used for latency, backoff and the breaker cooldown.
func WithClock(clock clockwork.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithTracerProvider sets the provider of dispatch spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Orchestrator) {
		o.tracer = tp.Tracer(instrumentationName)
	}
}

// Collaborators are the ports the orchestrator dispatches to.
// Nil workers disable worker dispatch; every call then takes the fallback path.
type Collaborators struct {
	Tasks    ports.TaskWorker
	Projects ports.ProjectWorker
	Vault    ports.Vault
	Metadata ports.MetadataService
	Parser   ports.FallbackParser
	Derived  ports.DerivedDataSource
	Logger   ports.Logger
}

// Orchestrator is the façade over the task and project workers.
type Orchestrator struct {
	deps      Collaborators
	retry     resilience.RetryPolicy
	threshold int
	cooldown  time.Duration
	clock     clockwork.Clock
	tracer    trace.Tracer
	breaker   *resilience.CircuitBreaker

	mu             sync.Mutex
	metrics        domain.PerformanceMetrics
	processing     bool
	workersEnabled bool
}

// New creates an orchestrator with worker processing enabled.
func New(deps Collaborators, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:           deps,
		retry:          resilience.DefaultRetryPolicy(),
		threshold:      domain.DefaultFailureThreshold,
		cooldown:       domain.DefaultBreakerCooldown,
		clock:          clockwork.NewRealClock(),
		tracer:         otel.Tracer(instrumentationName),
		processing:     true,
		workersEnabled: deps.Tasks != nil && deps.Projects != nil,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.retry.Clock = o.clock
	o.breaker = resilience.NewCircuitBreaker(o.threshold, o.cooldown, o.clock)
	return o
}

// ParseFileTasks returns the tasks of one file. It never fails; unparseable files yield no tasks.
func (o *Orchestrator) ParseFileTasks(ctx context.Context, p string, priority domain.Priority) []domain.Task {
	return run(ctx, o, dispatch[[]domain.Task]{
		name:  "orchestrator.ParseFileTasks",
		kind:  kindParse,
		items: 1,
		attrs: []attribute.KeyValue{attribute.String("file.path", p), attribute.String("priority", priority.String())},
		worker: func(ctx context.Context) ([]domain.Task, error) {
			return o.deps.Tasks.ProcessFile(ctx, p, priority)
		},
		fallback: func(ctx context.Context) []domain.Task {
			return o.parseLocally(ctx, p)
		},
	})
}

// BatchParse returns the tasks of every path. Paths that fail to parse map to an empty slice.
func (o *Orchestrator) BatchParse(ctx context.Context, paths []string, priority domain.Priority) map[string][]domain.Task {
	return run(ctx, o, dispatch[map[string][]domain.Task]{
		name:  "orchestrator.BatchParse",
		kind:  kindParse,
		items: len(paths),
		attrs: []attribute.KeyValue{attribute.Int("batch.size", len(paths)), attribute.String("priority", priority.String())},
		worker: func(ctx context.Context) (map[string][]domain.Task, error) {
			res, err := o.deps.Tasks.ProcessBatch(ctx, paths, priority)
			if res == nil && err == nil {
				res = make(map[string][]domain.Task)
			}
			return res, err
		},
		fallback: func(ctx context.Context) map[string][]domain.Task {
			res := make(map[string][]domain.Task, len(paths))
			for _, p := range paths {
				res[p] = o.parseLocally(ctx, p)
			}
			return res
		},
	})
}

type projectResult struct {
	data domain.FileDerivedData
	ok   bool
}

// ComputeProjectData returns the derived data of one file. It reports false when nothing could be computed.
func (o *Orchestrator) ComputeProjectData(ctx context.Context, p string) (domain.FileDerivedData, bool) {
	res := run(ctx, o, dispatch[projectResult]{
		name:  "orchestrator.ComputeProjectData",
		kind:  kindProject,
		items: 1,
		attrs: []attribute.KeyValue{attribute.String("file.path", p)},
		worker: func(ctx context.Context) (projectResult, error) {
			data, ok, err := o.deps.Projects.GetProjectData(ctx, p)
			return projectResult{data: data, ok: ok}, err
		},
		fallback: func(ctx context.Context) projectResult {
			data, ok := o.deps.Derived.Get(ctx, p)
			return projectResult{data: data, ok: ok}
		},
	})
	return res.data, res.ok
}

// BatchCompute returns the derived data of every path that could be computed.
func (o *Orchestrator) BatchCompute(ctx context.Context, paths []string) map[string]domain.FileDerivedData {
	return run(ctx, o, dispatch[map[string]domain.FileDerivedData]{
		name:  "orchestrator.BatchCompute",
		kind:  kindProject,
		items: len(paths),
		attrs: []attribute.KeyValue{attribute.Int("batch.size", len(paths))},
		worker: func(ctx context.Context) (map[string]domain.FileDerivedData, error) {
			res, err := o.deps.Projects.GetBatchProjectData(ctx, paths)
			if res == nil && err == nil {
				res = make(map[string]domain.FileDerivedData)
			}
			return res, err
		},
		fallback: func(ctx context.Context) map[string]domain.FileDerivedData {
			if len(paths) == 0 {
				return make(map[string]domain.FileDerivedData)
			}
			return o.deps.Derived.GetBatch(ctx, paths)
		},
	})
}

// SetWorkerProcessingEnabled toggles worker dispatch.
// Enabling clears the breaker's failure count when it is below the threshold.
func (o *Orchestrator) SetWorkerProcessingEnabled(enabled bool) {
	o.mu.Lock()
	o.processing = enabled
	o.mu.Unlock()

	if enabled && o.breaker.Failures() < o.breaker.Threshold() {
		o.breaker.Reset()
	}
}

// IsWorkerProcessingEnabled reports whether worker dispatch is switched on.
func (o *Orchestrator) IsWorkerProcessingEnabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.processing
}

// SetWorkersEnabled overrides worker availability. Enabling clears the breaker.
func (o *Orchestrator) SetWorkersEnabled(enabled bool) {
	o.mu.Lock()
	o.workersEnabled = enabled && o.deps.Tasks != nil && o.deps.Projects != nil
	o.mu.Unlock()

	if enabled {
		o.breaker.Reset()
	}
}

// GetMetrics returns a snapshot of the counters, success rates, breaker state and worker stats.
func (o *Orchestrator) GetMetrics() domain.OrchestratorMetrics {
	o.mu.Lock()
	m := domain.OrchestratorMetrics{
		PerformanceMetrics:      o.metrics,
		WorkersEnabled:          o.workersEnabled,
		WorkerProcessingEnabled: o.processing,
	}
	o.mu.Unlock()

	m.TaskParsingSuccessRate = rate(m.TaskParsingSuccess, m.TaskParsingFailures)
	m.ProjectDataSuccessRate = rate(m.ProjectDataSuccess, m.ProjectDataFailures)
	m.Circuit = o.breaker.State()
	if o.deps.Tasks != nil {
		m.TaskWorker = o.deps.Tasks.Stats()
	}
	if o.deps.Projects != nil {
		m.ProjectWorker = o.deps.Projects.Stats()
	}
	return m
}

// ResetMetrics zeroes the performance counters.
func (o *Orchestrator) ResetMetrics() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.metrics = domain.PerformanceMetrics{}
}

// QueueStats reports pending task worker jobs.
func (o *Orchestrator) QueueStats() domain.QueueStats {
	if o.deps.Tasks == nil {
		return domain.QueueStats{}
	}
	return domain.QueueStats{TaskQueueSize: o.deps.Tasks.PendingCount()}
}

// Destroy closes both workers. Later calls take the fallback path.
func (o *Orchestrator) Destroy() error {
	o.mu.Lock()
	o.workersEnabled = false
	o.mu.Unlock()

	var errs []error
	if o.deps.Tasks != nil {
		errs = append(errs, o.deps.Tasks.Close())
	}
	if o.deps.Projects != nil {
		errs = append(errs, o.deps.Projects.Close())
	}
	return errors.Join(errs...)
}

type operationKind int

const (
	kindParse operationKind = iota
	kindProject
)

type dispatch[T any] struct {
	name     string
	kind     operationKind
	items    int
	attrs    []attribute.KeyValue
	worker   func(context.Context) (T, error)
	fallback func(context.Context) T
}

// run drives one dispatch through the worker path and falls back on exhaustion.
func run[T any](ctx context.Context, o *Orchestrator, d dispatch[T]) T {
	ctx, span := o.tracer.Start(ctx, d.name, trace.WithAttributes(d.attrs...))
	defer span.End()

	if d.items == 0 || !o.workerPathOpen() {
		span.SetAttributes(attribute.String("dispatch.outcome", "fallback"))
		return fallback(ctx, o, d)
	}

	start := o.clock.Now()
	attempts := 0
	res, err := resilience.Retry(ctx, o.retry, func(ctx context.Context) (T, error) {
		attempts++
		return d.worker(ctx)
	}, func(attempt int, err error, next time.Duration) {
		o.deps.Logger.Warn(fmt.Sprintf("%s failed (attempt %d/%d), retrying in %s: %v",
			d.name, attempt, o.retry.MaxAttempts, next, err))
	})
	span.SetAttributes(attribute.Int("dispatch.attempts", attempts))

	if err == nil {
		o.recordSuccess(d.kind, d.items, o.clock.Since(start))
		span.SetAttributes(attribute.String("dispatch.outcome", "succeeded"))
		return res
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "worker dispatch failed")
	span.SetAttributes(attribute.String("dispatch.outcome", "fallback"))

	if ctx.Err() == nil {
		if o.recordFailure(d.kind, d.items) {
			o.deps.Logger.Warn(fmt.Sprintf("too many worker failures (%d), disabling workers for %s",
				o.breaker.Failures(), o.cooldown))
		}
	}
	o.deps.Logger.Error(zerr.With(
		zerr.With(zerr.Wrap(err, domain.ErrWorkerDispatchFailed.Error()), "operation", d.name),
		"attempts", attempts,
	))
	return fallback(ctx, o, d)
}

// fallback runs the in-process path of d. It counts once per call.
func fallback[T any](ctx context.Context, o *Orchestrator, d dispatch[T]) T {
	o.mu.Lock()
	o.metrics.FallbackToMainThread++
	o.mu.Unlock()
	return d.fallback(ctx)
}

func (o *Orchestrator) workerPathOpen() bool {
	o.mu.Lock()
	open := o.processing && o.workersEnabled
	o.mu.Unlock()
	return open && o.breaker.Allow()
}

func (o *Orchestrator) recordSuccess(kind operationKind, items int, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.metrics.TotalOperations++
	weight := float64(min(o.metrics.TotalOperations, domain.LatencyWeightCap))
	ms := float64(elapsed) / float64(time.Millisecond)

	switch kind {
	case kindParse:
		o.metrics.TaskParsingSuccess += items
		o.metrics.AverageTaskParsingMs = (o.metrics.AverageTaskParsingMs*(weight-1) + ms) / weight
	case kindProject:
		o.metrics.ProjectDataSuccess += items
		o.metrics.AverageProjectDataMs = (o.metrics.AverageProjectDataMs*(weight-1) + ms) / weight
	}
}

// recordFailure counts an exhausted dispatch and reports whether it tripped the breaker.
func (o *Orchestrator) recordFailure(kind operationKind, items int) bool {
	o.mu.Lock()
	switch kind {
	case kindParse:
		o.metrics.TaskParsingFailures += items
	case kindProject:
		o.metrics.ProjectDataFailures += items
	}
	o.mu.Unlock()
	return o.breaker.RecordFailure()
}

// parseLocally reads p and runs the fallback parser over it.
// Failures are logged and yield an empty, non-nil slice.
func (o *Orchestrator) parseLocally(ctx context.Context, p string) []domain.Task {
	if !strings.EqualFold(path.Ext(p), ".md") {
		return []domain.Task{}
	}

	content, err := o.deps.Vault.Read(ctx, p)
	if err != nil {
		o.deps.Logger.Error(err)
		return []domain.Task{}
	}

	var frontmatter domain.ConfigRecord
	if meta, ok := o.deps.Metadata.GetCache(ctx, p); ok && meta != nil {
		frontmatter = meta.Frontmatter
	}

	tasks, err := o.deps.Parser.Parse(content, p, frontmatter)
	if err != nil {
		o.deps.Logger.Error(zerr.With(zerr.Wrap(err, "fallback parse failed"), "path", p))
		return []domain.Task{}
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks
}

func rate(success, failures int) float64 {
	total := success + failures
	if total == 0 {
		return 0
	}
	return float64(success) / float64(total)
}
