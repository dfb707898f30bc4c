package merge

import (
	"github.com/benv-dev/benv/internal/core/domain"
)

// Resolver applies the priority policy to conflicts. A conflict is
// resolvable only when the contributing packages carry pairwise-distinct
// priorities; the numerically lowest priority wins. Declaration order never
// breaks a resolution tie.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve decides the outcome for one conflict. The decision is a pure
// function of the contributors' priorities, so it is independent of merge
// processing order.
func (r *Resolver) Resolve(conflict domain.Conflict) domain.Resolution {
	seen := make(map[int]bool, len(conflict.Contributors))
	for i := range conflict.Contributors {
		priority := conflict.Contributors[i].Priority
		if seen[priority] {
			return domain.Resolution{Conflict: conflict, Resolved: false}
		}
		seen[priority] = true
	}

	winner := conflict.Contributors[0]
	for _, pkg := range conflict.Contributors[1:] {
		if pkg.Priority < winner.Priority {
			winner = pkg
		}
	}
	return domain.Resolution{Conflict: conflict, Winner: winner, Resolved: true}
}
