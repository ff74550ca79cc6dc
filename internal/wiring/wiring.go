// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/tasklens/internal/adapters/config"
	_ "go.trai.ch/tasklens/internal/adapters/logger"
	_ "go.trai.ch/tasklens/internal/adapters/telemetry"
	_ "go.trai.ch/tasklens/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/tasklens/internal/app"
)
