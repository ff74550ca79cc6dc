package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/tasklens/internal/ui/output"
	"go.trai.ch/tasklens/internal/ui/style"
)

// locationKeys name the attributes that identify a vault location. The first one present
// is printed in front of the message instead of among the attributes.
var locationKeys = []string{"path", "dir"}

// PrettyHandler is a slog.Handler producing colored, human-readable lines such as
//
//	Projects/A/note.md: recomputed took=1.2ms batch.size=3
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string
}

// NewPrettyHandler creates a PrettyHandler writing to w.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := decorate(r.Level)

	fields := make([]field, 0, len(h.attrs)+r.NumAttrs())
	fields = flatten(fields, "", h.attrs...)
	r.Attrs(func(attr slog.Attr) bool {
		fields = flatten(fields, h.prefix, attr)
		return true
	})

	var sb strings.Builder
	if icon != "" {
		sb.WriteString(icon + " ")
	}
	if loc, rest, ok := splitLocation(fields); ok {
		sb.WriteString(loc + ": ")
		fields = rest
	}
	sb.WriteString(r.Message)
	for _, f := range fields {
		sb.WriteString(" " + f.key + "=" + f.value)
	}

	styled := h.out.String(sb.String()).Foreground(color)
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes appended.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	qualified := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	qualified = append(qualified, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		qualified = append(qualified, a)
	}

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  qualified,
		prefix: h.prefix,
	}
}

// WithGroup returns a new Handler that nests later attributes under name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  h.attrs,
		prefix: h.prefix + name + ".",
	}
}

type field struct {
	key   string
	value string
}

func decorate(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	case level < slog.LevelInfo:
		return style.Tilde, termenv.RGBColor(string(style.Iris))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}

// flatten appends attrs to fields, expanding groups into dotted keys.
func flatten(fields []field, prefix string, attrs ...slog.Attr) []field {
	for _, a := range attrs {
		v := a.Value.Resolve()
		if v.Kind() == slog.KindGroup {
			p := prefix
			if a.Key != "" {
				p += a.Key + "."
			}
			fields = flatten(fields, p, v.Group()...)
			continue
		}
		if a.Key == "" {
			continue
		}
		fields = append(fields, field{key: prefix + a.Key, value: formatValue(v)})
	}
	return fields
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindDuration:
		return roundDuration(v.Duration()).String()
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}
		return s
	default:
		return v.String()
	}
}

// roundDuration drops precision below a hundredth of the leading unit.
func roundDuration(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(10 * time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond)
	case d >= time.Microsecond:
		return d.Round(10 * time.Nanosecond)
	default:
		return d
	}
}

func splitLocation(fields []field) (string, []field, bool) {
	for _, key := range locationKeys {
		for i, f := range fields {
			if f.key != key {
				continue
			}
			rest := make([]field, 0, len(fields)-1)
			rest = append(rest, fields[:i]...)
			rest = append(rest, fields[i+1:]...)
			return f.value, rest, true
		}
	}
	return "", fields, false
}
