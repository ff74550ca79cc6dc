package dirconfig_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tasklens/internal/adapters/dirconfig"
	"go.trai.ch/tasklens/internal/adapters/frontmatter"
	"go.trai.ch/tasklens/internal/adapters/logger"
	"go.trai.ch/tasklens/internal/adapters/vault"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/tasklens/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newSource(fsys fstest.MapFS) *dirconfig.Source {
	lg := logger.New()
	lg.SetOutput(io.Discard)
	v := vault.New(fsys)
	return dirconfig.NewSource(v, frontmatter.NewService(v, lg), "")
}

func TestParseContent(t *testing.T) {
	content := `
# comment line
// another comment
project: "Alpha"
area: 'home'
empty:
:novalue
url: https://example.com/a
  owner :  sam  
not a pair
`
	record := dirconfig.ParseContent([]byte(content))

	assert.Equal(t, []string{"project", "area", "url", "owner"}, record.Keys())
	for key, want := range map[string]string{
		"project": "Alpha",
		"area":    "home",
		"url":     "https://example.com/a",
		"owner":   "sam",
	} {
		got, ok := record.Text(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestSource_FindAndIsConfigPath(t *testing.T) {
	src := newSource(fstest.MapFS{
		"Projects/A/task-genius.config.md": {Data: []byte("project: Alpha")},
		"Projects/B/note.md":               {Data: []byte("x")},
	})

	e, ok := src.Find("Projects/A")
	require.True(t, ok)
	assert.Equal(t, "Projects/A/task-genius.config.md", e.Path)

	_, ok = src.Find("Projects/B")
	assert.False(t, ok)

	assert.True(t, src.IsConfigPath("Projects/A/task-genius.config.md"))
	assert.True(t, src.IsConfigPath("task-genius.config.md"))
	assert.False(t, src.IsConfigPath("Projects/A/note.md"))
	assert.Equal(t, domain.DirectoryConfigFileName, src.FileName())
}

func TestSource_LoadMergesFrontmatterUnderContent(t *testing.T) {
	content := "---\nproject: FromHeader\nowner: sam\n---\nproject: FromBody\n"
	mtime := time.UnixMilli(5000)
	src := newSource(fstest.MapFS{
		"A/task-genius.config.md": {Data: []byte(content), ModTime: mtime},
	})

	e, ok := src.Find("A")
	require.True(t, ok)

	snap, err := src.Load(t.Context(), e)
	require.NoError(t, err)

	assert.Equal(t, "A/task-genius.config.md", snap.Path)
	assert.Equal(t, int64(5000), snap.ModTime)
	assert.Equal(t, xxhash.Sum64String(content), snap.Digest)

	project, _ := snap.Data.Text("project")
	assert.Equal(t, "FromBody", project)
	owner, _ := snap.Data.Text("owner")
	assert.Equal(t, "sam", owner)
}

func TestSource_LoadMissing(t *testing.T) {
	src := newSource(fstest.MapFS{})

	_, err := src.Load(t.Context(), ports.Entry{Path: "gone/task-genius.config.md"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrDirectoryConfigRead.Error())
}

func TestSource_LoadConcurrent(t *testing.T) {
	src := newSource(fstest.MapFS{
		"A/task-genius.config.md": {Data: []byte("project: Alpha")},
	})
	e, ok := src.Find("A")
	require.True(t, ok)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			snap, err := src.Load(t.Context(), e)
			assert.NoError(t, err)
			project, _ := snap.Data.Text("project")
			assert.Equal(t, "Alpha", project)
		})
	}
	wg.Wait()
}

func TestSource_LoadOutlivesCallerCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	v := mocks.NewMockVault(ctrl)
	meta := mocks.NewMockMetadataService(ctrl)
	src := dirconfig.NewSource(v, meta, "")

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	artifact := ports.Entry{Path: "A/task-genius.config.md", ModTime: 42}

	v.EXPECT().Read(gomock.Any(), artifact.Path).DoAndReturn(func(readCtx context.Context, _ string) ([]byte, error) {
		cancel()
		assert.NoError(t, readCtx.Err())
		return []byte("project: Alpha"), nil
	})
	meta.EXPECT().GetCache(gomock.Any(), artifact.Path).Return(nil, false)

	snap, err := src.Load(ctx, artifact)
	require.NoError(t, err)
	project, _ := snap.Data.Text("project")
	assert.Equal(t, "Alpha", project)
	assert.Equal(t, int64(42), snap.ModTime)
}

func TestSource_LoadCancelledCaller(t *testing.T) {
	src := newSource(fstest.MapFS{
		"A/task-genius.config.md": {Data: []byte("project: Alpha")},
	})
	e, ok := src.Find("A")
	require.True(t, ok)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := src.Load(ctx, e)
	assert.ErrorIs(t, err, context.Canceled)
}
