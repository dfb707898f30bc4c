package merge

import (
	"context"

	"github.com/benv-dev/benv/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"github.com/benv-dev/benv/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"github.com/benv-dev/benv/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"github.com/benv-dev/benv/internal/core/ports"
	"github.com/grindlemire/graft"
)

const (
	// MergerNodeID is the unique identifier for the Merger Graft node.
	MergerNodeID graft.ID = "engine.merge.merger"
	// ResolverNodeID is the unique identifier for the Resolver Graft node.
	ResolverNodeID graft.ID = "engine.merge.resolver"
)

func init() {
	graft.Register(graft.Node[*Merger]{
		ID:        MergerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.WalkerNodeID,
			fs.HasherNodeID,
			fs.LinkerNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Merger, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[*fs.Hasher](ctx)
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
			return NewMerger(walker, hasher, linker, log, tel), nil
		},
	})

	graft.Register(graft.Node[*Resolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Resolver, error) {
			return NewResolver(), nil
		},
	})
}
