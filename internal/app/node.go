package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/benv-dev/benv/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"github.com/benv-dev/benv/internal/adapters/lockfile"  //nolint:depguard // Wired in app layer
	"github.com/benv-dev/benv/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"github.com/benv-dev/benv/internal/adapters/registry"  //nolint:depguard // Wired in app layer
	"github.com/benv-dev/benv/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"github.com/benv-dev/benv/internal/core/ports"
	"github.com/benv-dev/benv/internal/engine/activate"
	"github.com/benv-dev/benv/internal/engine/container"
	"github.com/benv-dev/benv/internal/engine/merge"
	"github.com/grindlemire/graft"
	"go.trai.ch/zerr"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			lockfile.NodeID,
			merge.MergerNodeID,
			merge.ResolverNodeID,
			activate.NodeID,
			container.NodeID,
			registry.NodeID,
			fs.LinkerNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			application, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: application, Logger: log, Telemetry: tel}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.LockfileLoader](ctx)
	if err != nil {
		return nil, err
	}
	merger, err := graft.Dep[*merge.Merger](ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := graft.Dep[*merge.Resolver](ctx)
	if err != nil {
		return nil, err
	}
	activator, err := graft.Dep[*activate.Generator](ctx)
	if err != nil {
		return nil, err
	}
	assembler, err := graft.Dep[*container.Assembler](ctx)
	if err != nil {
		return nil, err
	}
	reg, err := graft.Dep[ports.EnvironmentRegistry](ctx)
	if err != nil {
		return nil, err
	}
	linker, err := graft.Dep[*fs.Linker](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to locate user cache directory")
	}
	stateDir := filepath.Join(cacheDir, "benv")

	return New(loader, merger, resolver, activator, assembler, reg, linker, log, tel, stateDir), nil
}
