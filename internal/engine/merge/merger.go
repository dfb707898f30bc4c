// Package merge implements the path merger and conflict resolver: N package
// output trees become one composed tree, with file-level collisions decided
// by declared priority.
package merge

import (
	"context"
	iofs "io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/benv-dev/benv/internal/adapters/fs"
	"github.com/benv-dev/benv/internal/core/domain"
	"github.com/benv-dev/benv/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// contribution is one package's file at a relative path.
type contribution struct {
	pkg     domain.ResolvedPackage
	rel     string
	source  string
	digest  uint64
	symlink bool
}

// Plan is the intermediate merge state: every relative path with its
// selected contribution, plus the contributions still contested. Conflicted
// paths enter the plan only through Choose.
type Plan struct {
	selections map[string]contribution
	contested  map[string][]contribution
}

// Choose selects the winning package for a previously conflicted path.
func (p *Plan) Choose(relPath string, winner domain.ResolvedPackage) error {
	for _, c := range p.contested[relPath] {
		if c.pkg.ID() == winner.ID() {
			p.selections[relPath] = c
			delete(p.contested, relPath)
			return nil
		}
	}
	return zerr.With(zerr.New("winner did not contribute to path"), "path", relPath)
}

// Merger walks package output trees concurrently and detects file-level
// collisions. Conflict decisions are only made after every tree walk has
// finished, so the outcome never depends on walk interleaving.
type Merger struct {
	walker    *fs.Walker
	hasher    *fs.Hasher
	linker    *fs.Linker
	logger    ports.Logger
	telemetry ports.Telemetry
}

// NewMerger creates a new Merger.
func NewMerger(
	walker *fs.Walker,
	hasher *fs.Hasher,
	linker *fs.Linker,
	logger ports.Logger,
	telemetry ports.Telemetry,
) *Merger {
	return &Merger{
		walker:    walker,
		hasher:    hasher,
		linker:    linker,
		logger:    logger,
		telemetry: telemetry,
	}
}

// Merge walks all package trees and returns the merge plan together with
// every detected conflict. Packages are processed highest precedence first
// (ascending priority, declaration order on ties). Duplicate byte-identical
// provisions are not conflicts.
func (m *Merger) Merge(ctx context.Context, packages []domain.ResolvedPackage) (*Plan, []domain.Conflict, error) {
	ordered := orderByPrecedence(packages)

	// Walk every tree concurrently; each walk is independent. The per-package
	// entry lists land in a fixed slot so the later combine step is
	// deterministic regardless of which walk finishes first.
	manifests := make([][]contribution, len(ordered))
	var mu sync.Mutex

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, pkg := range ordered {
		g.Go(func() error {
			_, vertex := m.telemetry.Record(groupCtx, "merge "+pkg.ID())
			entries, err := m.walkPackage(groupCtx, pkg)
			vertex.Complete(err)
			if err != nil {
				return err
			}

			mu.Lock()
			manifests[i] = entries
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Barrier passed: combine contributions in precedence order and decide
	// duplicates vs conflicts per path.
	byPath := make(map[string][]contribution)
	paths := make([]string, 0)
	for _, entries := range manifests {
		for _, c := range entries {
			if _, seen := byPath[c.rel]; !seen {
				paths = append(paths, c.rel)
			}
			byPath[c.rel] = append(byPath[c.rel], c)
		}
	}
	sort.Strings(paths)

	plan := &Plan{
		selections: make(map[string]contribution),
		contested:  make(map[string][]contribution),
	}
	var conflicts []domain.Conflict

	for _, relPath := range paths {
		distinct, err := m.distinctContent(byPath[relPath])
		if err != nil {
			return nil, nil, err
		}

		if len(distinct) == 1 {
			plan.selections[relPath] = distinct[0]
			continue
		}

		contributors := make([]domain.ResolvedPackage, len(distinct))
		for i, c := range distinct {
			contributors[i] = c.pkg
		}
		plan.contested[relPath] = distinct
		conflict := domain.Conflict{
			RelPath:      relPath,
			Contributors: contributors,
		}
		m.logger.Warn("file collision: " + conflict.Describe())
		conflicts = append(conflicts, conflict)
	}

	return plan, conflicts, nil
}

// Materialize writes every selected file into destRoot. It must only be
// called once all conflicts are resolved; contested leftovers are a
// programming error.
func (m *Merger) Materialize(ctx context.Context, plan *Plan, destRoot string) (domain.MergedTree, error) {
	if len(plan.contested) != 0 {
		return domain.MergedTree{}, zerr.With(zerr.New("plan has unresolved paths"), "count", len(plan.contested))
	}

	relPaths := make([]string, 0, len(plan.selections))
	for relPath := range plan.selections {
		relPaths = append(relPaths, relPath)
	}
	sort.Strings(relPaths)

	tree := domain.MergedTree{
		Root:   destRoot,
		Owners: make(map[string]string, len(relPaths)),
	}

	for _, relPath := range relPaths {
		if err := ctx.Err(); err != nil {
			return domain.MergedTree{}, zerr.Wrap(err, "merge interrupted")
		}

		sel := plan.selections[relPath]
		if err := m.linker.CopyEntry(sel.source, filepath.Join(destRoot, relPath)); err != nil {
			return domain.MergedTree{}, err
		}
		tree.Owners[relPath] = sel.pkg.ID()
	}

	return tree, nil
}

// walkPackage collects the package's file contributions with their content
// digests.
func (m *Merger) walkPackage(ctx context.Context, pkg domain.ResolvedPackage) ([]contribution, error) {
	var entries []contribution
	err := m.walker.Walk(pkg.OutputPath, func(relPath string, d iofs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		source := filepath.Join(pkg.OutputPath, relPath)
		digest, err := m.hasher.HashFile(source)
		if err != nil {
			return err
		}
		entries = append(entries, contribution{
			pkg:     pkg,
			rel:     relPath,
			source:  source,
			digest:  digest,
			symlink: d.Type()&iofs.ModeSymlink != 0,
		})
		return nil
	})
	if err != nil {
		return nil, zerr.With(err, "package", pkg.ID())
	}

	// WalkDir yields lexical order already; keep the invariant explicit since
	// the combine step depends on stable per-package ordering.
	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })
	return entries, nil
}

// distinctContent reduces contributions at one path to one representative
// per distinct content. A digest match between regular files is confirmed
// byte-for-byte before the later contribution is dropped as a duplicate.
func (m *Merger) distinctContent(contribs []contribution) ([]contribution, error) {
	var distinct []contribution

outer:
	for _, c := range contribs {
		for _, rep := range distinct {
			same, err := m.sameContent(rep, c)
			if err != nil {
				return nil, err
			}
			if same {
				continue outer
			}
		}
		distinct = append(distinct, c)
	}
	return distinct, nil
}

func (m *Merger) sameContent(a, b contribution) (bool, error) {
	if a.symlink != b.symlink || a.digest != b.digest {
		return false, nil
	}
	if a.symlink {
		return true, nil
	}
	return m.hasher.EqualContent(a.source, b.source)
}

// orderByPrecedence sorts packages highest precedence first: ascending
// priority value, declaration order preserved on ties.
func orderByPrecedence(packages []domain.ResolvedPackage) []domain.ResolvedPackage {
	ordered := make([]domain.ResolvedPackage, len(packages))
	copy(ordered, packages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})
	return ordered
}
