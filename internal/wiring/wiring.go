// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/benv-dev/benv/internal/adapters/fs"
	_ "github.com/benv-dev/benv/internal/adapters/lockfile"
	_ "github.com/benv-dev/benv/internal/adapters/logger"
	_ "github.com/benv-dev/benv/internal/adapters/registry"
	_ "github.com/benv-dev/benv/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "github.com/benv-dev/benv/internal/app"
	_ "github.com/benv-dev/benv/internal/engine/activate"
	_ "github.com/benv-dev/benv/internal/engine/container"
	_ "github.com/benv-dev/benv/internal/engine/merge"
)
