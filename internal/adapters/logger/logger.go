// Package logger implements ports.Logger on top of log/slog.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/tasklens/internal/core/ports"
)

// messager is implemented by zerr errors and returns the message without the wrapped chain.
type messager interface {
	Message() string
}

// metadataCarrier is implemented by zerr errors carrying key-value context.
type metadataCarrier interface {
	Metadata() map[string]any
}

type errorEntry struct {
	message  string
	metadata map[string]any
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	level    *slog.LevelVar
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

var _ ports.Logger = (*Logger)(nil)

// New creates a Logger writing pretty output to stderr at info level.
func New() *Logger {
	l := &Logger{
		level:  &slog.LevelVar{},
		output: os.Stderr,
	}
	l.level.Set(slog.LevelInfo)
	l.rebuild()
	return l
}

// SetOutput updates the output destination. A nil writer selects stderr.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.rebuild()
}

// SetJSON switches between JSON and pretty output.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.rebuild()
}

// SetLevel sets the minimum level from "debug", "info", "warn" or "error".
// Unknown names leave the level unchanged.
func (l *Logger) SetLevel(name string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return
	}
	l.level.Set(lvl)
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: l.level}
	if l.jsonMode {
		l.logger = slog.New(slog.NewJSONHandler(l.output, opts))
		return
	}
	l.logger = slog.New(NewPrettyHandler(l.output, opts))
}

// Debug logs a diagnostic message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs err with its cause chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if err == nil {
		return
	}

	entries := collectEntries(err)
	if len(entries) == 0 {
		entries = []errorEntry{{message: err.Error()}}
	}
	if l.jsonMode {
		l.logger.Error(entries[0].message, errorAttrs(err, entries)...)
		return
	}

	l.logger.Error(formatEntries(entries))
}

// collectEntries walks the zerr chain. A foreign error ends the walk with its full text.
// Links with an empty message only carry metadata, which is attached to the nearest message.
func collectEntries(err error) []errorEntry {
	var entries []errorEntry
	pending := make(map[string]any)
	push := func(e errorEntry) {
		if len(pending) > 0 {
			if e.metadata == nil {
				e.metadata = make(map[string]any)
			}
			maps.Copy(e.metadata, pending)
			clear(pending)
		}
		entries = append(entries, e)
	}

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			push(errorEntry{message: current.Error()})
			break
		}
		var meta map[string]any
		if mc, ok := current.(metadataCarrier); ok {
			meta = mc.Metadata()
		}
		switch {
		case m.Message() != "":
			push(errorEntry{message: m.Message(), metadata: meta})
		case len(entries) > 0:
			last := &entries[len(entries)-1]
			if last.metadata == nil {
				last.metadata = make(map[string]any)
			}
			maps.Copy(last.metadata, meta)
		default:
			maps.Copy(pending, meta)
		}
		current = errors.Unwrap(current)
	}
	return entries
}

// errorAttrs turns the metadata of the chain into attributes. The outermost value wins on key clashes.
func errorAttrs(err error, entries []errorEntry) []any {
	args := []any{"error", err}
	seen := map[string]bool{"error": true}
	for _, e := range entries {
		for _, k := range slices.Sorted(maps.Keys(e.metadata)) {
			if seen[k] {
				continue
			}
			seen[k] = true
			args = append(args, k, e.metadata[k])
		}
	}
	return args
}

func formatEntries(entries []errorEntry) string {
	var lines []string
	for i, e := range entries {
		parts := strings.Split(e.message, "\n")
		if fields := formatMetadata(e.metadata); fields != "" {
			parts = append(parts, fields)
		}
		switch i {
		case 0:
			lines = append(lines, "Error: "+parts[0])
			for _, p := range parts[1:] {
				lines = append(lines, "       "+p)
			}
			continue
		case 1:
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+parts[0])
		for _, p := range parts[1:] {
			lines = append(lines, "      "+p)
		}
	}
	return strings.Join(lines, "\n")
}

func formatMetadata(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	keys := slices.Sorted(maps.Keys(meta))
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", k, meta[k]))
	}
	return strings.Join(fields, " ")
}
