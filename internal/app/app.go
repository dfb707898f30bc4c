// Package app implements the application layer for benv.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/benv-dev/benv/internal/core/domain"
	"github.com/benv-dev/benv/internal/core/ports"
	"github.com/benv-dev/benv/internal/engine/activate"
	"github.com/benv-dev/benv/internal/engine/container"
	"github.com/benv-dev/benv/internal/engine/merge"
	"go.trai.ch/zerr"
)

// DefaultOutLink is the out-link path used when the caller does not
// provide one.
const DefaultOutLink = "result"

// BuildOptions controls optional build outputs.
type BuildOptions struct {
	// OutLink is where the environment symlink is placed. Empty means
	// DefaultOutLink in the working directory.
	OutLink string

	// Container requests a container builder script inside the environment.
	Container bool
}

// EnvironmentOutput describes what a successful build produced.
type EnvironmentOutput struct {
	// Path is the out-link now pointing at the built environment.
	Path string

	// ContainerBuilder is the builder script path, empty unless requested.
	ContainerBuilder string
}

// App drives the full composition pipeline: load, merge, resolve, activate,
// promote, link, register.
type App struct {
	loader    ports.LockfileLoader
	merger    *merge.Merger
	resolver  *merge.Resolver
	activator *activate.Generator
	assembler *container.Assembler
	registry  ports.EnvironmentRegistry
	linker    environmentLinker
	logger    ports.Logger
	telemetry ports.Telemetry
	stateDir  string
}

// environmentLinker is the slice of the fs adapter the app needs.
type environmentLinker interface {
	SwapLink(target, linkPath string) error
}

// New creates a new App instance. stateDir holds per-build staging
// directories and the promoted environment trees.
func New(
	loader ports.LockfileLoader,
	merger *merge.Merger,
	resolver *merge.Resolver,
	activator *activate.Generator,
	assembler *container.Assembler,
	registry ports.EnvironmentRegistry,
	linker environmentLinker,
	logger ports.Logger,
	telemetry ports.Telemetry,
	stateDir string,
) *App {
	return &App{
		loader:    loader,
		merger:    merger,
		resolver:  resolver,
		activator: activator,
		assembler: assembler,
		registry:  registry,
		linker:    linker,
		logger:    logger,
		telemetry: telemetry,
		stateDir:  stateDir,
	}
}

// Build composes the environment described by the lockfile argument. No
// output is promoted or linked unless every step succeeds; an interrupted or
// failed build leaves at most an unreferenced staging directory behind.
func (a *App) Build(ctx context.Context, lockfileArg string, opts BuildOptions) (out *EnvironmentOutput, err error) {
	ctx, vertex := a.telemetry.Record(ctx, "build environment")
	defer func() { vertex.Complete(err) }()

	lf, err := a.loader.Load(lockfileArg)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load lockfile")
	}

	plan, conflicts, err := a.merger.Merge(ctx, lf.Packages)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to merge package trees")
	}

	if err := a.resolveConflicts(plan, conflicts); err != nil {
		return nil, err
	}

	staging, err := a.stagingDir()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			// Best effort: a leftover staging dir is unreferenced garbage,
			// never a live environment.
			_ = os.RemoveAll(staging)
		}
	}()

	tree, err := a.merger.Materialize(ctx, plan, staging)
	if err != nil {
		return nil, err
	}

	if err = a.activator.Generate(tree.Root, activationInputs(lf)); err != nil {
		return nil, err
	}

	builderPath := ""
	if opts.Container {
		builderPath, err = a.assembleContainer(ctx, tree, lf)
		if err != nil {
			return nil, err
		}
	}

	envDir, err := a.promote(ctx, staging, lf.EnvironmentID())
	if err != nil {
		return nil, err
	}

	outLink := opts.OutLink
	if outLink == "" {
		outLink = DefaultOutLink
	}
	if err = a.linker.SwapLink(envDir, outLink); err != nil {
		return nil, err
	}
	if _, err = a.registry.Register(outLink); err != nil {
		return nil, zerr.Wrap(err, "failed to register environment link")
	}

	a.logger.Info(fmt.Sprintf("built environment %s -> %s", outLink, envDir))

	output := &EnvironmentOutput{Path: outLink}
	if builderPath != "" {
		output.ContainerBuilder = filepath.Join(envDir, container.BuilderScriptName)
	}
	return output, nil
}

// resolveConflicts applies the priority rule to every conflict and fails
// with a single aggregated report when any remain unresolved.
func (a *App) resolveConflicts(plan *merge.Plan, conflicts []domain.Conflict) error {
	var unresolved []string
	for _, conflict := range conflicts {
		resolution := a.resolver.Resolve(conflict)
		if !resolution.Resolved {
			unresolved = append(unresolved, conflict.Describe())
			continue
		}
		if err := plan.Choose(conflict.RelPath, resolution.Winner); err != nil {
			return err
		}
	}

	if len(unresolved) > 0 {
		sort.Strings(unresolved)
		return zerr.With(
			zerr.Wrap(domain.ErrFileConflict, strings.Join(unresolved, "; ")),
			"count", len(unresolved),
		)
	}
	return nil
}

// stagingDir creates a fresh per-build staging directory under the state dir.
func (a *App) stagingDir() (string, error) {
	root := filepath.Join(a.stateDir, "builds")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", zerr.Wrap(err, "failed to create staging root")
	}
	staging, err := os.MkdirTemp(root, "build-*")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create staging directory")
	}
	return staging, nil
}

// promote moves the finished staging tree into its content-addressed home
// under the state dir. A previous build of the same lockfile is replaced.
func (a *App) promote(ctx context.Context, staging, envID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", zerr.Wrap(err, "build interrupted before promotion")
	}

	envsRoot := filepath.Join(a.stateDir, "envs")
	if err := os.MkdirAll(envsRoot, 0o755); err != nil {
		return "", zerr.Wrap(err, "failed to create environments root")
	}

	envDir := filepath.Join(envsRoot, envID)
	if err := os.RemoveAll(envDir); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to clear previous environment"), "path", envDir)
	}
	if err := os.Rename(staging, envDir); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to promote environment"), "path", envDir)
	}
	return envDir, nil
}

func (a *App) assembleContainer(ctx context.Context, tree domain.MergedTree, lf *domain.Lockfile) (string, error) {
	ctx, vertex := a.telemetry.Record(ctx, "assemble container")
	path, err := a.assembler.Assemble(ctx, tree, lf.System, lf.MergedVars())
	vertex.Complete(err)
	return path, err
}

// activationInputs derives the activation script inputs from the lockfile:
// the merged variable union plus the highest-precedence hook and
// on-activate scripts.
func activationInputs(lf *domain.Lockfile) activate.Inputs {
	in := activate.Inputs{Vars: lf.MergedVars()}
	for _, pkg := range lf.PackagesByPrecedence() {
		if in.HookScript == "" && pkg.HookScript != "" {
			in.HookScript = pkg.HookScript
		}
		if in.OnActivateScript == "" && pkg.OnActivateScript != "" {
			in.OnActivateScript = pkg.OnActivateScript
		}
	}
	return in
}

// Envs writes the registered environments to w, one per line, or as a JSON
// array when asJSON is set. Stale entries are listed as-is.
func (a *App) Envs(asJSON bool, w io.Writer) error {
	entries, err := a.registry.Entries()
	if err != nil {
		return zerr.Wrap(err, "failed to read environment registry")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", entry.Key, entry.Path); err != nil {
			return zerr.Wrap(err, "failed to write environment list")
		}
	}
	return nil
}
