// Package telemetry installs the OpenTelemetry tracer provider used by the orchestrator.
package telemetry

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/tasklens/internal/core/ports"
)

// NewTracerProvider returns a provider that samples every span and reports it through a LogBridge.
func NewTracerProvider(logger ports.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(NewLogBridge(logger)),
	)
}
