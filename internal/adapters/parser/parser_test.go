package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tasklens/internal/adapters/parser"
	"go.trai.ch/tasklens/internal/core/domain"
)

const note = `---
project: Alpha
---
# Heading

- [ ] write the report #work
- [x] call Sam [due:: 2026-03-01]
* [/] half done [priority:: 2] [project:: Beta]
1. [ ] numbered item

` + "```" + `
- [ ] not a task
` + "```" + `
- plain bullet
`

func TestParse(t *testing.T) {
	p := parser.New("")

	tasks, err := p.Parse([]byte(note), "Projects/A/note.md", domain.RecordOf("project", "Alpha"))
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	first := tasks[0]
	assert.Equal(t, "write the report #work", first.Content)
	assert.Equal(t, 6, first.Line)
	assert.Equal(t, " ", first.Status)
	assert.False(t, first.Completed)
	assert.Equal(t, []string{"#work"}, first.Tags)
	assert.Equal(t, "Alpha", first.Project)
	assert.Equal(t, "Projects/A/note.md", first.FilePath)

	second := tasks[1]
	assert.True(t, second.Completed)
	due, ok := second.Metadata.Text("due")
	require.True(t, ok)
	assert.Equal(t, "2026-03-01", due)

	third := tasks[2]
	assert.Equal(t, "/", third.Status)
	assert.False(t, third.Completed)
	priority, ok := third.Metadata.Get("priority")
	require.True(t, ok)
	n, ok := priority.Int()
	require.True(t, ok)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, "Beta", third.Project, "inline project wins")

	assert.Equal(t, "numbered item", tasks[3].Content)
	assert.Equal(t, 9, tasks[3].Line)
}

func TestParse_StableIDs(t *testing.T) {
	p := parser.New("project")

	a, err := p.Parse([]byte("- [ ] one\n- [ ] two\n"), "a.md", domain.ConfigRecord{})
	require.NoError(t, err)
	b, err := p.Parse([]byte("- [ ] one changed\n- [ ] two\n"), "a.md", domain.ConfigRecord{})
	require.NoError(t, err)
	c, err := p.Parse([]byte("- [ ] one\n"), "b.md", domain.ConfigRecord{})
	require.NoError(t, err)

	assert.Equal(t, a[0].ID, b[0].ID, "same path and line")
	assert.NotEqual(t, a[0].ID, a[1].ID)
	assert.NotEqual(t, a[0].ID, c[0].ID)
}

func TestParse_NoTasks(t *testing.T) {
	tasks, err := parser.New("").Parse([]byte("just prose"), "a.md", domain.ConfigRecord{})

	require.NoError(t, err)
	assert.Empty(t, tasks)
}
