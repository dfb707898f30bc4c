package container

import (
	"context"

	"github.com/benv-dev/benv/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"github.com/benv-dev/benv/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"github.com/benv-dev/benv/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the Assembler Graft node.
const NodeID graft.ID = "engine.container.assembler"

func init() {
	graft.Register(graft.Node[*Assembler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.LinkerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Assembler, error) {
			linker, err := graft.Dep[*fs.Linker](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewAssembler(linker, log), nil
		},
	})
}
