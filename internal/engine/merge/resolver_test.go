package merge_test

import (
	"testing"

	"github.com/benv-dev/benv/internal/core/domain"
	"github.com/benv-dev/benv/internal/engine/merge"
	"github.com/stretchr/testify/assert"
)

func resolvedPkg(name, version string, priority int) domain.ResolvedPackage {
	return domain.ResolvedPackage{
		Name:     domain.NewInternedString(name),
		Version:  domain.NewInternedString(version),
		Priority: priority,
	}
}

func TestResolver_DistinctPrioritiesResolve(t *testing.T) {
	conflict := domain.Conflict{
		RelPath: "bin/vim",
		Contributors: []domain.ResolvedPackage{
			resolvedPkg("vim", "9.0", 7),
			resolvedPkg("vim-full", "9.1", 2),
			resolvedPkg("vim-tiny", "8.2", 4),
		},
	}

	res := merge.NewResolver().Resolve(conflict)

	assert.True(t, res.Resolved)
	assert.Equal(t, "vim-full@9.1", res.Winner.ID())
}

func TestResolver_EqualPriorityUnresolved(t *testing.T) {
	conflict := domain.Conflict{
		RelPath: "bin/vim",
		Contributors: []domain.ResolvedPackage{
			resolvedPkg("vim", "9.0", 5),
			resolvedPkg("vim", "9.1", 5),
		},
	}

	res := merge.NewResolver().Resolve(conflict)
	assert.False(t, res.Resolved)
}

func TestResolver_AnySharedPriorityUnresolved(t *testing.T) {
	// Pairwise-distinct is required: a unique minimum does not rescue a
	// conflict when two other contributors tie.
	conflict := domain.Conflict{
		RelPath: "bin/vim",
		Contributors: []domain.ResolvedPackage{
			resolvedPkg("vim-full", "9.1", 1),
			resolvedPkg("vim", "9.0", 5),
			resolvedPkg("vim-tiny", "8.2", 5),
		},
	}

	res := merge.NewResolver().Resolve(conflict)
	assert.False(t, res.Resolved)
}
