package domain

import (
	"fmt"
	"sort"
)

// ResolvedPackage is one fully resolved package as produced by the external
// resolver: a materialized output tree on local storage plus the metadata
// needed to compose it into an environment. Instances are immutable once
// handed to the assembler.
type ResolvedPackage struct {
	// Name is the canonical package name (e.g., "vim").
	Name InternedString

	// Version is the resolved version string (e.g., "9.1").
	Version InternedString

	// OutputPath is the absolute path to the package's immutable output tree.
	OutputPath string

	// Priority determines precedence when packages collide on a path.
	// Lower values win. Ties between distinct packages are fatal conflicts.
	Priority int

	// HookScript is an optional path to a script sourced during activation.
	HookScript string

	// OnActivateScript is an optional path to a script executed during activation.
	OnActivateScript string

	// Vars maps exported environment variable names to their raw string values.
	Vars map[string]string
}

// ID returns the package identifier in name@version form. It is the
// identifier surfaced in conflict reports and progress output.
func (p *ResolvedPackage) ID() string {
	return fmt.Sprintf("%s@%s", p.Name.String(), p.Version.String())
}

// Lockfile is the fully resolved, ordered package list that a build composes.
// It is read-only input to the engine; declaration order is significant and
// breaks priority ties during merge processing.
type Lockfile struct {
	// Version is the lockfile format version.
	Version int

	// System is the target system the packages were resolved for
	// (e.g., "x86_64-linux").
	System string

	// Packages is the ordered sequence of resolved packages.
	Packages []ResolvedPackage
}

// PackagesByPrecedence returns the packages sorted highest precedence first:
// ascending priority value, declaration order on equal priority. The
// receiver's order is not modified.
func (l *Lockfile) PackagesByPrecedence() []ResolvedPackage {
	sorted := make([]ResolvedPackage, len(l.Packages))
	copy(sorted, l.Packages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// MergedVars returns the union of all packages' exported variables. When two
// packages export the same name, the higher-precedence package's value wins.
func (l *Lockfile) MergedVars() map[string]string {
	merged := make(map[string]string)
	for _, pkg := range l.PackagesByPrecedence() {
		for name, value := range pkg.Vars {
			if _, taken := merged[name]; !taken {
				merged[name] = value
			}
		}
	}
	return merged
}
