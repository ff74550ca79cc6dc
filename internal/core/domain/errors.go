package domain

import "go.trai.ch/zerr"

var (
	// ErrFileNotFound is returned when a vault path does not resolve to a file.
	ErrFileNotFound = zerr.New("file not found")

	// ErrNotAFile is returned when a vault path resolves to a directory.
	ErrNotAFile = zerr.New("path is a directory")

	// ErrVaultReadFailed is returned when a vault file cannot be read.
	ErrVaultReadFailed = zerr.New("failed to read vault file")

	// ErrInvalidVaultPath is returned when a path escapes the vault or is malformed.
	ErrInvalidVaultPath = zerr.New("invalid vault path")

	// ErrFrontmatterInvalid is returned when a front-matter block cannot be decoded.
	ErrFrontmatterInvalid = zerr.New("invalid front-matter")

	// ErrDirectoryConfigRead is returned when a directory configuration artifact cannot be read.
	ErrDirectoryConfigRead = zerr.New("failed to read directory config")

	// ErrUnsupportedFileType is returned when a file type cannot be parsed for tasks.
	ErrUnsupportedFileType = zerr.New("unsupported file type")

	// ErrWorkerClosed is returned when work is submitted to a closed worker.
	ErrWorkerClosed = zerr.New("worker is closed")

	// ErrWorkerDispatchFailed is returned when all worker attempts for an operation failed.
	ErrWorkerDispatchFailed = zerr.New("worker dispatch failed")

	// ErrConfigReadFailed is returned when the settings file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read settings")

	// ErrConfigInvalid is returned when the settings fail validation.
	ErrConfigInvalid = zerr.New("invalid settings")

	// ErrInvalidPathMapping is returned when a project path mapping pattern cannot be compiled.
	ErrInvalidPathMapping = zerr.New("invalid path mapping pattern")

	// ErrWatcherStart is returned when the vault watcher cannot be started.
	ErrWatcherStart = zerr.New("failed to start watcher")

	// ErrUnsupportedFormat is returned for an unknown output format.
	ErrUnsupportedFormat = zerr.New("unsupported output format")

	// ErrNoPathsSpecified is returned when a command needs at least one path.
	ErrNoPathsSpecified = zerr.New("no paths specified")
)
