package vault_test

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tasklens/internal/adapters/vault"
	"go.trai.ch/tasklens/internal/core/domain"
)

func testFS() fstest.MapFS {
	mtime := time.UnixMilli(1_700_000_000_000)
	return fstest.MapFS{
		"Projects/A/note.md":               {Data: []byte("# note"), ModTime: mtime},
		"Projects/A/task-genius.config.md": {Data: []byte("project: Alpha"), ModTime: mtime},
		"Projects/B/other.md":              {Data: []byte("other"), ModTime: mtime},
		"root.md":                          {Data: []byte("root"), ModTime: mtime},
		".obsidian/workspace.json":         {Data: []byte("{}"), ModTime: mtime},
	}
}

func TestFSVault_Read(t *testing.T) {
	v := vault.New(testFS())

	data, err := v.Read(context.Background(), "Projects/A/note.md")
	require.NoError(t, err)
	assert.Equal(t, "# note", string(data))

	_, err = v.Read(context.Background(), "missing.md")
	require.ErrorContains(t, err, domain.ErrFileNotFound.Error())

	_, err = v.Read(context.Background(), "../escape.md")
	require.ErrorContains(t, err, domain.ErrInvalidVaultPath.Error())
}

func TestFSVault_ReadCancelled(t *testing.T) {
	v := vault.New(testFS())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Read(ctx, "root.md")
	require.ErrorIs(t, err, context.Canceled)
}

func TestFSVault_Lookup(t *testing.T) {
	v := vault.New(testFS())

	e, ok := v.Lookup("Projects/A/note.md")
	require.True(t, ok)
	assert.Equal(t, "Projects/A/note.md", e.Path)
	assert.Equal(t, "note.md", e.Name)
	assert.Equal(t, int64(1_700_000_000_000), e.ModTime)
	assert.False(t, e.IsDir)

	dir, ok := v.Lookup("Projects/A")
	require.True(t, ok)
	assert.True(t, dir.IsDir)

	_, ok = v.Lookup("Projects/C")
	assert.False(t, ok)
}

func TestFSVault_Children(t *testing.T) {
	v := vault.New(testFS())

	children, err := v.Children("Projects/A")
	require.NoError(t, err)
	names := make([]string, 0, len(children))
	for _, c := range children {
		names = append(names, c.Path)
	}
	assert.ElementsMatch(t, []string{"Projects/A/note.md", "Projects/A/task-genius.config.md"}, names)

	root, err := v.Children("")
	require.NoError(t, err)
	var rootNames []string
	for _, c := range root {
		rootNames = append(rootNames, c.Path)
	}
	assert.Contains(t, rootNames, "root.md")
	assert.Contains(t, rootNames, "Projects")
}

func TestFSVault_Files(t *testing.T) {
	v := vault.New(testFS())

	files, err := v.Files(context.Background())
	require.NoError(t, err)
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{
		"Projects/A/note.md",
		"Projects/A/task-genius.config.md",
		"Projects/B/other.md",
		"root.md",
	}, paths)
}
