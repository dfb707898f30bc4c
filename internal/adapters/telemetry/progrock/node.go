package progrock

import (
	"context"

	"github.com/benv-dev/benv/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the progrock telemetry Graft node.
const NodeID graft.ID = "adapter.telemetry.progrock"

func init() {
	graft.Register(graft.Node[*Recorder]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Recorder, error) {
			return New(), nil
		},
	})
}

var _ ports.Telemetry = (*Recorder)(nil)
