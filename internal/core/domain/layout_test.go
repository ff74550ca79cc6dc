package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/tasklens/internal/core/domain"
)

func TestParentDir(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"note.md", ""},
		{"Projects/A/note.md", "Projects/A"},
		{"/Projects/note.md", "Projects"},
		{"Projects/A/", "Projects"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ParentDir(tt.in))
		})
	}
}

func TestJoinVaultPath(t *testing.T) {
	assert.Equal(t, "note.md", domain.JoinVaultPath("", "note.md"))
	assert.Equal(t, "A/note.md", domain.JoinVaultPath("A", "note.md"))
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, domain.PriorityHigh, domain.ParsePriority("HIGH"))
	assert.Equal(t, domain.PriorityLow, domain.ParsePriority(" low "))
	assert.Equal(t, domain.PriorityNormal, domain.ParsePriority("whatever"))
	assert.Equal(t, "high", domain.PriorityHigh.String())
}
