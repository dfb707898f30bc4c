// Package lockfile provides the loader for resolved-package lockfiles.
package lockfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/benv-dev/benv/internal/core/domain"
	"github.com/benv-dev/benv/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.LockfileLoader = (*Loader)(nil)

// Loader implements ports.LockfileLoader over YAML (and therefore JSON)
// lockfile documents.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load accepts either a path to a lockfile or the lockfile content itself.
// A single-line argument naming an existing file is read from disk; anything
// else is treated as inline content.
func (l *Loader) Load(arg string) (*domain.Lockfile, error) {
	content := []byte(arg)
	if isPathArg(arg) {
		data, err := os.ReadFile(arg) //nolint:gosec // Path is provided by the user
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read lockfile"), "path", arg)
		}
		content = data
	}

	var dto lockfileDTO
	if err := yaml.Unmarshal(content, &dto); err != nil {
		return nil, zerr.Wrap(err, "failed to parse lockfile")
	}

	lf, err := toDomain(&dto)
	if err != nil {
		return nil, err
	}

	if err := l.validate(lf); err != nil {
		return nil, err
	}

	l.logger.Info(fmt.Sprintf("loaded lockfile: %d packages for %s", len(lf.Packages), lf.System))
	return lf, nil
}

// isPathArg reports whether the argument should be read as a file. Inline
// lockfile content always spans multiple lines or contains separators that
// never appear in a path argument.
func isPathArg(arg string) bool {
	if strings.ContainsAny(arg, "\n:{") {
		return false
	}
	_, err := os.Stat(arg)
	return err == nil
}

func toDomain(dto *lockfileDTO) (*domain.Lockfile, error) {
	lf := &domain.Lockfile{
		Version:  dto.Version,
		System:   dto.System,
		Packages: make([]domain.ResolvedPackage, 0, len(dto.Packages)),
	}

	for i := range dto.Packages {
		p := &dto.Packages[i]
		if p.Name == "" {
			return nil, zerr.With(zerr.New("package entry missing name"), "index", i)
		}
		lf.Packages = append(lf.Packages, domain.ResolvedPackage{
			Name:             domain.NewInternedString(p.Name),
			Version:          domain.NewInternedString(p.Version),
			OutputPath:       p.OutputPath,
			Priority:         p.Priority,
			HookScript:       p.HookScript,
			OnActivateScript: p.OnActivateScript,
			Vars:             p.Vars,
		})
	}
	return lf, nil
}

// validate enforces the structural contract before any build output exists:
// a non-empty package list, materialized output trees, and existing declared
// activation scripts.
func (l *Loader) validate(lf *domain.Lockfile) error {
	if len(lf.Packages) == 0 {
		return domain.ErrEmptyLockfile
	}

	for i := range lf.Packages {
		pkg := &lf.Packages[i]
		if pkg.OutputPath == "" {
			return zerr.With(domain.ErrMissingOutputPath, "package", pkg.ID())
		}
		info, err := os.Stat(pkg.OutputPath)
		if err != nil || !info.IsDir() {
			err := zerr.With(domain.ErrMissingOutputPath, "package", pkg.ID())
			return zerr.With(err, "path", pkg.OutputPath)
		}

		for _, script := range []string{pkg.HookScript, pkg.OnActivateScript} {
			if script == "" {
				continue
			}
			if _, err := os.Stat(script); err != nil {
				err := zerr.With(domain.ErrMissingScript, "package", pkg.ID())
				return zerr.With(err, "script", script)
			}
		}
	}
	return nil
}
