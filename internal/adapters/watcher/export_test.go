package watcher

import (
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/tasklens/internal/core/domain"
)

// ConvertEvent exposes event conversion for a watcher rooted at root.
func ConvertEvent(root string, event fsnotify.Event) (domain.FileLifecycleEvent, bool) {
	w := &Watcher{root: root}
	return w.convertEvent(event)
}
