package domain

import "strings"

// Conflict records a relative path provided with differing content by two or
// more packages. It is created transiently during merge and either resolved
// by priority or surfaced as a fatal build error.
type Conflict struct {
	// RelPath is the path, relative to the environment root, that collided.
	RelPath string

	// Contributors are the packages providing differing content at RelPath,
	// in precedence order.
	Contributors []ResolvedPackage
}

// ContributorIDs returns the identifiers of all contributing packages.
func (c *Conflict) ContributorIDs() []string {
	ids := make([]string, len(c.Contributors))
	for i := range c.Contributors {
		ids[i] = c.Contributors[i].ID()
	}
	return ids
}

// Describe renders the conflict as a single human-readable line naming the
// shared path and every contributing package identifier.
func (c *Conflict) Describe() string {
	return c.RelPath + ": provided by " + strings.Join(c.ContributorIDs(), ", ")
}

// Resolution is the outcome of applying priority rules to a Conflict.
type Resolution struct {
	Conflict Conflict

	// Winner is the package whose file is kept. Only valid when Resolved.
	Winner ResolvedPackage

	// Resolved reports whether priorities determined a unique winner.
	Resolved bool
}
