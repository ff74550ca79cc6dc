package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/tasklens/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/tasklens/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/tasklens/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/tasklens/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/tasklens/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components used by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			telemetry.NodeID,
			watcher.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.SettingsLoader](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tp, err := graft.Dep[trace.TracerProvider](ctx)
			if err != nil {
				return nil, err
			}

			watchers, err := graft.Dep[ports.WatcherFactory](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, log, tp, watchers), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
