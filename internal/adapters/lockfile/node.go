package lockfile

import (
	"context"

	"github.com/benv-dev/benv/internal/adapters/logger" //nolint:depguard // Wired in adapter wiring
	"github.com/benv-dev/benv/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the lockfile loader Graft node.
const NodeID graft.ID = "adapter.lockfile_loader"

func init() {
	graft.Register(graft.Node[ports.LockfileLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.LockfileLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
