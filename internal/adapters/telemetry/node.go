package telemetry

import (
	"context"
	"os"

	progrockadapter "github.com/benv-dev/benv/internal/adapters/telemetry/progrock"
	"github.com/benv-dev/benv/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the telemetry Graft node.
//
// The default recorder is the no-op; setting BENV_PROGRESS selects the
// progrock tape recorder for interactive progress output.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			if os.Getenv("BENV_PROGRESS") != "" {
				return progrockadapter.New(), nil
			}
			return NewNoOp(), nil
		},
	})
}
