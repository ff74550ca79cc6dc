package domain

import "strings"

// Priority orders work submitted to a worker.
type Priority uint8

const (
	// PriorityNormal is the default.
	PriorityNormal Priority = iota
	// PriorityHigh jumps ahead of queued normal and low work.
	PriorityHigh
	// PriorityLow runs only when nothing else is queued.
	PriorityLow
)

// ParsePriority maps "high", "normal" and "low" to a Priority. Unknown values map to PriorityNormal.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh
	case "low":
		return PriorityLow
	default:
		return PriorityNormal
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "normal"
	}
}

// Task is a single checklist item parsed from a vault file.
type Task struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	FilePath  string       `json:"filePath"`
	Line      int          `json:"line"`
	Status    string       `json:"status"`
	Completed bool         `json:"completed"`
	Tags      []string     `json:"tags,omitempty"`
	Project   string       `json:"project,omitempty"`
	Metadata  ConfigRecord `json:"metadata"`
}
