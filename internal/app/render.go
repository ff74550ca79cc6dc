package app

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.trai.ch/tasklens/internal/core/domain"
	"go.trai.ch/tasklens/internal/ui/style"
	"go.trai.ch/zerr"
)

const (
	// FormatJSON prints indented JSON.
	FormatJSON = "json"
	// FormatTable prints aligned tables.
	FormatTable = "table"
)

func (a *App) render(format string, data map[string]domain.FileDerivedData) error {
	switch format {
	case "", FormatJSON:
		return a.writeJSON(data)
	case FormatTable:
		t := a.newTable()
		t.AppendHeader(table.Row{"Path", "Project", "Source", "Config", "Metadata"})
		for _, p := range slices.Sorted(maps.Keys(data)) {
			d := data[p]
			name, source := "", ""
			if d.Project != nil {
				name, source = d.Project.Name.String(), string(d.Project.Source)
			}
			t.AppendRow(table.Row{p, name, source, d.ConfigSource, recordSummary(d.EnhancedMetadata)})
		}
		t.Render()
		return nil
	default:
		return zerr.With(domain.ErrUnsupportedFormat, "format", format)
	}
}

func (a *App) renderTasks(format string, tasks map[string][]domain.Task) error {
	switch format {
	case "", FormatJSON:
		return a.writeJSON(tasks)
	case FormatTable:
		t := a.newTable()
		t.AppendHeader(table.Row{"Path", "Line", "Status", "Content", "Project"})
		for _, p := range slices.Sorted(maps.Keys(tasks)) {
			for _, task := range tasks[p] {
				t.AppendRow(table.Row{p, task.Line, "[" + task.Status + "]", task.Content, task.Project})
			}
		}
		t.Render()
		return nil
	default:
		return zerr.With(domain.ErrUnsupportedFormat, "format", format)
	}
}

type statsReport struct {
	Cache        domain.CacheStatistics     `json:"cache"`
	Orchestrator domain.OrchestratorMetrics `json:"orchestrator"`
}

func (a *App) renderStats(format string, cache domain.CacheStatistics, m domain.OrchestratorMetrics) error {
	switch format {
	case "", FormatJSON:
		return a.writeJSON(statsReport{Cache: cache, Orchestrator: m})
	case FormatTable:
	default:
		return zerr.With(domain.ErrUnsupportedFormat, "format", format)
	}

	fmt.Fprintln(a.out, style.Heading("Cache"))
	t := a.newTable()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Files requested", cache.TotalFiles},
		{"Cache hits", cache.CachedFiles},
		{"Directory hits", cache.DirectoryCacheHits},
		{"Config hits", cache.ConfigCacheHits},
		{"Cached files", cache.FileCacheSize},
		{"Cached directories", cache.DirectoryCacheSize},
		{"Pending updates", cache.PendingUpdates},
		{"Evictions", cache.Evictions},
		{"Last update", lastUpdate(cache.LastUpdateTime)},
	})
	t.Render()

	fmt.Fprintln(a.out, style.Heading("Orchestrator"))
	t = a.newTable()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Workers", style.Status(m.WorkersEnabled && m.WorkerProcessingEnabled)},
		{"Circuit", circuitSummary(m.Circuit)},
		{"Parse success rate", fmt.Sprintf("%.1f%%", m.TaskParsingSuccessRate*100)},
		{"Project success rate", fmt.Sprintf("%.1f%%", m.ProjectDataSuccessRate*100)},
		{"Average parse", fmt.Sprintf("%.2fms", m.AverageTaskParsingMs)},
		{"Average project", fmt.Sprintf("%.2fms", m.AverageProjectDataMs)},
		{"Fallbacks", m.FallbackToMainThread},
		{"Operations", m.TotalOperations},
		{"Worker jobs", fmt.Sprintf("%d completed, %d failed", m.TaskWorker.Completed, m.TaskWorker.Failed)},
	})
	t.Render()
	return nil
}

func (a *App) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.SetStyle(table.StyleLight)
	return t
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return zerr.Wrap(err, "failed to encode output")
	}
	return nil
}

func recordSummary(r domain.ConfigRecord) string {
	parts := make([]string, 0, r.Len())
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		parts = append(parts, k+"="+v.String())
	}
	return strings.Join(parts, ", ")
}

func circuitSummary(c domain.CircuitState) string {
	if c.Tripped {
		return fmt.Sprintf("%s open since %s", style.Warning, time.UnixMilli(c.TrippedAtMs).UTC().Format(time.RFC3339))
	}
	return fmt.Sprintf("closed (%d failures)", c.Failures)
}

func lastUpdate(ms int64) string {
	if ms == 0 {
		return "never"
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
