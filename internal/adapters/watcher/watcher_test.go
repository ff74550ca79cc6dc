package watcher_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tasklens/internal/adapters/logger"
	"go.trai.ch/tasklens/internal/adapters/watcher"
	"go.trai.ch/tasklens/internal/core/domain"
)

func TestConvertEvent(t *testing.T) {
	root := filepath.FromSlash("/vault")
	at := func(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }

	tests := []struct {
		name  string
		event fsnotify.Event
		want  domain.FileLifecycleEvent
	}{
		{"create", fsnotify.Event{Name: at("Projects/a.md"), Op: fsnotify.Create}, domain.FileCreated{Path: "Projects/a.md"}},
		{"write", fsnotify.Event{Name: at("a.md"), Op: fsnotify.Write}, domain.FileModified{Path: "a.md"}},
		{"remove", fsnotify.Event{Name: at("a.md"), Op: fsnotify.Remove}, domain.FileDeleted{Path: "a.md"}},
		{"rename", fsnotify.Event{Name: at("old.md"), Op: fsnotify.Rename}, domain.FileDeleted{Path: "old.md"}},
		{"uppercase extension", fsnotify.Event{Name: at("A.MD"), Op: fsnotify.Write}, domain.FileModified{Path: "A.MD"}},
		{"non markdown", fsnotify.Event{Name: at("img.png"), Op: fsnotify.Create}, nil},
		{"chmod", fsnotify.Event{Name: at("a.md"), Op: fsnotify.Chmod}, nil},
		{"skipped directory", fsnotify.Event{Name: at(".obsidian/workspace.md"), Op: fsnotify.Write}, nil},
		{"outside root", fsnotify.Event{Name: filepath.FromSlash("/elsewhere/a.md"), Op: fsnotify.Write}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := watcher.ConvertEvent(root, tt.event)
			if tt.want == nil {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWatcher_EmitsLifecycleEvents(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Projects"), 0o750))

	lg := logger.New()
	lg.SetOutput(io.Discard)
	w, err := watcher.NewWatcher(lg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	events := make(chan domain.FileLifecycleEvent, 16)
	go func() {
		for e := range w.Events() {
			events <- e
		}
		close(events)
	}()

	note := filepath.Join(root, "Projects", "note.md")
	require.NoError(t, os.WriteFile(note, []byte("- [ ] task"), 0o600))

	select {
	case e := <-events:
		assert.Equal(t, domain.FileCreated{Path: "Projects/note.md"}, e)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for create event")
	}

	require.NoError(t, os.Remove(note))
	deadline := time.After(5 * time.Second)
	for {
		select {
		case e := <-events:
			if e == (domain.FileDeleted{Path: "Projects/note.md"}) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for delete event")
		}
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	lg := logger.New()
	lg.SetOutput(io.Discard)
	w, err := watcher.NewWatcher(lg)
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
