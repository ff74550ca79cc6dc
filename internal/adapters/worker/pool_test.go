package worker_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tasklens/internal/adapters/frontmatter"
	"go.trai.ch/tasklens/internal/adapters/logger"
	"go.trai.ch/tasklens/internal/adapters/parser"
	"go.trai.ch/tasklens/internal/adapters/vault"
	"go.trai.ch/tasklens/internal/adapters/worker"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newPool(t *testing.T, derived *mocks.MockDerivedDataSource, workers int) *worker.Pool {
	t.Helper()
	lg := logger.New()
	lg.SetOutput(io.Discard)
	v := vault.New(fstest.MapFS{
		"Projects/A/note.md": {Data: []byte("---\nproject: Alpha\n---\n- [ ] one\n- [x] two\n")},
		"Projects/A/img.png": {Data: []byte{0x89}},
	})
	deps := worker.Deps{
		Vault:    v,
		Metadata: frontmatter.NewService(v, lg),
		Parser:   parser.New(""),
		Logger:   lg,
	}
	if derived != nil {
		deps.Derived = derived
	}
	pool := worker.NewPool(deps, workers)
	t.Cleanup(func() { _ = pool.Close() })
	return pool
}

func TestPool_ProcessFile(t *testing.T) {
	pool := newPool(t, nil, 2)

	tasks, err := pool.ProcessFile(t.Context(), "Projects/A/note.md", domain.PriorityNormal)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "one", tasks[0].Content)
	assert.Equal(t, "Alpha", tasks[0].Project)

	tasks, err = pool.ProcessFile(t.Context(), "Projects/A/img.png", domain.PriorityHigh)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)

	_, err = pool.ProcessFile(t.Context(), "Projects/A/missing.md", domain.PriorityLow)
	require.Error(t, err)

	stats := pool.Stats()
	assert.Equal(t, 2, stats.Workers)
	assert.Equal(t, 3, stats.Submitted)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Pending)
}

func TestPool_ProcessBatch(t *testing.T) {
	pool := newPool(t, nil, 4)

	res, err := pool.ProcessBatch(t.Context(), []string{"Projects/A/note.md", "Projects/A/missing.md", "Projects/A/img.png"}, domain.PriorityNormal)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Len(t, res["Projects/A/note.md"], 2)
	assert.NotNil(t, res["Projects/A/missing.md"])
	assert.Empty(t, res["Projects/A/missing.md"])
	assert.Empty(t, res["Projects/A/img.png"])
}

func TestPool_ProjectData(t *testing.T) {
	ctrl := gomock.NewController(t)
	derived := mocks.NewMockDerivedDataSource(ctrl)
	pool := newPool(t, derived, 1)

	want := domain.FileDerivedData{Project: domain.NewProjectAssignment("Alpha", domain.SourceConfig, "task-genius.config.md")}
	derived.EXPECT().Get(gomock.Any(), "a.md").Return(want, true)
	derived.EXPECT().GetBatch(gomock.Any(), []string{"a.md", "b.md"}).
		Return(map[string]domain.FileDerivedData{"a.md": want})
	derived.EXPECT().GetBatch(gomock.Any(), []string{"c.md"}).Return(nil)

	got, ok, err := pool.GetProjectData(t.Context(), "a.md")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	batch, err := pool.GetBatchProjectData(t.Context(), []string{"a.md", "b.md"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.FileDerivedData{"a.md": want}, batch)

	empty, err := pool.GetBatchProjectData(t.Context(), []string{"c.md"})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPool_PriorityOrder(t *testing.T) {
	pool := newPool(t, nil, 1)

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = pool.Submit(context.Background(), domain.PriorityNormal, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	var (
		mu    sync.Mutex
		order []domain.Priority
	)
	for _, prio := range []domain.Priority{domain.PriorityLow, domain.PriorityNormal, domain.PriorityHigh} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.Submit(context.Background(), prio, func(context.Context) error {
				mu.Lock()
				order = append(order, prio)
				mu.Unlock()
				return nil
			})
		}()
	}

	require.Eventually(t, func() bool { return pool.PendingCount() == 4 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, []domain.Priority{domain.PriorityHigh, domain.PriorityNormal, domain.PriorityLow}, order)
}

func TestPool_JobErrorCarriesJobID(t *testing.T) {
	pool := newPool(t, nil, 1)

	boom := errors.New("boom")
	err := pool.Submit(t.Context(), domain.PriorityNormal, func(context.Context) error { return boom })
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, pool.Stats().Failed)
}

func TestPool_CancelledContext(t *testing.T) {
	pool := newPool(t, nil, 1)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := pool.ProcessFile(ctx, "Projects/A/note.md", domain.PriorityNormal)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPool_Close(t *testing.T) {
	pool := newPool(t, nil, 2)

	require.NoError(t, pool.Close())
	require.NoError(t, pool.Close())

	_, err := pool.ProcessFile(t.Context(), "Projects/A/note.md", domain.PriorityNormal)
	assert.ErrorIs(t, err, domain.ErrWorkerClosed)

	_, err = pool.ProcessBatch(t.Context(), []string{"Projects/A/note.md"}, domain.PriorityNormal)
	assert.ErrorIs(t, err, domain.ErrWorkerClosed)
}
