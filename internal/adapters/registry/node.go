package registry

import (
	"context"
	"os"
	"path/filepath"

	"github.com/benv-dev/benv/internal/core/ports"
	"github.com/grindlemire/graft"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the environment registry Graft node.
const NodeID graft.ID = "adapter.registry"

func init() {
	graft.Register(graft.Node[ports.EnvironmentRegistry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.EnvironmentRegistry, error) {
			cacheDir, err := os.UserCacheDir()
			if err != nil {
				return nil, zerr.Wrap(err, "failed to locate user cache directory")
			}
			return Open(filepath.Join(cacheDir, "benv", "registered_environments"))
		},
	})
}
