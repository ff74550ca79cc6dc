package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/tasklens/internal/adapters/logger"
	"go.trai.ch/tasklens/internal/core/ports"
)

// NodeID is the unique identifier for the tracer provider Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[trace.TracerProvider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (trace.TracerProvider, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewTracerProvider(log), nil
		},
	})
}
