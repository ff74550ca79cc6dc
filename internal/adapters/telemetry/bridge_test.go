package telemetry_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.trai.ch/tasklens/internal/adapters/telemetry"
	"go.trai.ch/tasklens/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestTracerProvider_LogsFinishedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var lines []string
	log.EXPECT().Debug(gomock.Any()).Do(func(msg string) { lines = append(lines, msg) }).Times(2)

	tp := telemetry.NewTracerProvider(log)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := tp.Tracer("test")

	_, span := tracer.Start(t.Context(), "orchestrator.ParseFileTasks")
	span.SetAttributes(attribute.String("file.path", "a.md"), attribute.Int("batch.size", 2))
	span.End()

	_, span = tracer.Start(t.Context(), "orchestrator.BatchCompute")
	span.SetStatus(codes.Error, "worker down")
	span.End()

	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "orchestrator.ParseFileTasks took "))
	assert.Contains(t, lines[0], `file.path="a.md"`)
	assert.Contains(t, lines[0], "batch.size=2")
	assert.Contains(t, lines[1], `error="worker down"`)
}

func TestLogBridge_NilLogger(t *testing.T) {
	tp := telemetry.NewTracerProvider(nil)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(t.Context(), "noop")
	assert.NotPanics(t, func() { span.End() })
}
