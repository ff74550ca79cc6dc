// Package parser extracts checklist tasks from markdown notes.
package parser

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/tasklens/internal/adapters/frontmatter"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FallbackParser = (*Parser)(nil)

var (
	checkbox   = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+\[(.)\]\s*(.*)$`)
	inlineTag  = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_/-]+)`)
	inlineMeta = regexp.MustCompile(`\[([\p{L}\p{N}_-]+)::\s*([^\]]*)\]`)
)

// maxLineBytes bounds a single line of note content.
const maxLineBytes = 1 << 20

// Parser recognizes "- [ ] content" style checklist items.
type Parser struct {
	projectKey string
}

// New returns a parser that takes the task project from the front-matter key projectKey.
func New(projectKey string) *Parser {
	if projectKey == "" {
		projectKey = "project"
	}
	return &Parser{projectKey: projectKey}
}

// Parse returns the tasks found in content. Lines inside fenced code blocks and the
// front-matter block are ignored.
func (p *Parser) Parse(content []byte, path string, fm domain.ConfigRecord) ([]domain.Task, error) {
	_, body, _ := frontmatter.Split(content)
	line := bytes.Count(content[:len(content)-len(body)], []byte("\n"))
	project, _ := fm.Text(p.projectKey)

	var tasks []domain.Task
	inFence := false

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line++
		text := scanner.Text()

		if strings.HasPrefix(strings.TrimSpace(text), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		m := checkbox.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		tasks = append(tasks, newTask(path, line, m[1], strings.TrimSpace(m[2]), project))
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to scan note"), "path", path)
	}
	return tasks, nil
}

func newTask(path string, line int, status, content, project string) domain.Task {
	t := domain.Task{
		ID:        taskID(path, line),
		Content:   content,
		FilePath:  path,
		Line:      line,
		Status:    status,
		Completed: status == "x" || status == "X",
		Project:   project,
	}

	for _, m := range inlineTag.FindAllStringSubmatch(content, -1) {
		t.Tags = append(t.Tags, "#"+m[1])
	}
	for _, m := range inlineMeta.FindAllStringSubmatch(content, -1) {
		value := strings.TrimSpace(m[2])
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			t.Metadata.Set(m[1], domain.IntValue(n))
			continue
		}
		t.Metadata.Set(m[1], domain.StringValue(value))
	}
	if v, ok := t.Metadata.Text("project"); ok {
		t.Project = v
	}
	return t
}

// taskID derives a stable identifier from the file path and line.
func taskID(path string, line int) string {
	d := xxhash.New()
	_, _ = d.WriteString(path)
	_, _ = d.WriteString(":")
	_, _ = d.WriteString(strconv.Itoa(line))
	return strconv.FormatUint(d.Sum64(), 16)
}
