package domain

// FileLifecycleEvent is a vault change notification consumed by the derived-data cache.
type FileLifecycleEvent interface {
	lifecycleEvent()
}

// FileCreated reports a new file.
type FileCreated struct{ Path string }

// FileModified reports changed file content.
type FileModified struct{ Path string }

// FileDeleted reports a removed file.
type FileDeleted struct{ Path string }

// FileRenamed reports a move from OldPath to NewPath.
type FileRenamed struct{ OldPath, NewPath string }

func (FileCreated) lifecycleEvent()  {}
func (FileModified) lifecycleEvent() {}
func (FileDeleted) lifecycleEvent()  {}
func (FileRenamed) lifecycleEvent()  {}
