// Package activate generates the shell activation scripts of a composed
// environment: one script per supported dialect plus a dialect-agnostic
// profile.d fragment.
package activate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/benv-dev/benv/internal/adapters/fs"
	"github.com/benv-dev/benv/internal/core/domain"
	"github.com/benv-dev/benv/internal/core/ports"
	"go.trai.ch/zerr"
)

// ProfileFragmentName is the file installed under etc/profile.d for
// system-wide activation.
const ProfileFragmentName = "0100-benv-vars.sh"

// Inputs are the ingredients of an activation bundle. Script content is a
// pure function of these values: identical inputs produce identical bytes.
type Inputs struct {
	// Vars is the merged variable mapping exported by every script.
	Vars map[string]string

	// HookScript is an optional path to a script materialized at
	// activate/hook.sh and sourced during activation.
	HookScript string

	// OnActivateScript is an optional path to a script materialized at
	// activate/on-activate.sh and executed during activation.
	OnActivateScript string
}

// Generator emits the activation bundle into an environment tree.
type Generator struct {
	linker *fs.Linker
	logger ports.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(linker *fs.Linker, logger ports.Logger) *Generator {
	return &Generator{linker: linker, logger: logger}
}

// Generate writes activate/<dialect> for every activation dialect, the
// profile.d fragment, and the declared lifecycle scripts into envRoot.
func (g *Generator) Generate(envRoot string, in Inputs) error {
	activateDir := filepath.Join(envRoot, "activate")

	if in.HookScript != "" {
		if err := g.materializeScript(in.HookScript, filepath.Join(activateDir, "hook.sh")); err != nil {
			return err
		}
	}
	if in.OnActivateScript != "" {
		if err := g.materializeScript(in.OnActivateScript, filepath.Join(activateDir, "on-activate.sh")); err != nil {
			return err
		}
	}

	for _, dialect := range domain.ActivationDialects {
		script := g.renderDialect(dialect, in)
		path := filepath.Join(activateDir, dialect.String())
		if err := g.linker.WriteFile(path, []byte(script), 0o644); err != nil {
			return err
		}
	}

	fragment := g.renderProfileFragment(in)
	fragmentPath := filepath.Join(envRoot, "etc", "profile.d", ProfileFragmentName)
	if err := g.linker.WriteFile(fragmentPath, []byte(fragment), 0o644); err != nil {
		return err
	}

	g.logger.Info("generated activation scripts")
	return nil
}

// materializeScript copies a declared lifecycle script byte-for-byte into
// the activation directory, marked executable.
func (g *Generator) materializeScript(src, dst string) error {
	content, err := os.ReadFile(src) //nolint:gosec // Path was validated against the lockfile
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read lifecycle script"), "path", src)
	}
	return g.linker.WriteFile(dst, content, 0o755)
}

// renderDialect produces the activation script for one dialect. Variables
// are exported in lexicographic order so output stays diff-friendly.
func (g *Generator) renderDialect(dialect domain.ShellDialect, in Inputs) string {
	var b strings.Builder
	b.WriteString("# Environment activation script for ")
	b.WriteString(dialect.String())
	b.WriteString(".\n# Generated from the lockfile; do not edit.\n")
	b.WriteString(selfLocate(dialect))

	writeExports(&b, dialect, in.Vars)

	if in.HookScript != "" {
		b.WriteString("if [ -f \"$_benv_dir/hook.sh\" ]; then\n")
		b.WriteString("  . \"$_benv_dir/hook.sh\"\n")
		b.WriteString("fi\n")
	}
	if in.OnActivateScript != "" {
		b.WriteString("if [ -x \"$_benv_dir/on-activate.sh\" ]; then\n")
		b.WriteString("  \"$_benv_dir/on-activate.sh\"\n")
		b.WriteString("fi\n")
	}

	b.WriteString("unset _benv_dir\n")
	return b.String()
}

// renderProfileFragment produces the POSIX fragment for etc/profile.d.
// profile.d scripts are sourced from an unknown location, so the fragment
// carries exports only and no self-referencing hook logic.
func (g *Generator) renderProfileFragment(in Inputs) string {
	var b strings.Builder
	b.WriteString("# Environment variables for system-wide activation.\n")
	b.WriteString("# Generated from the lockfile; do not edit.\n")
	writeExports(&b, domain.DialectPOSIX, in.Vars)
	return b.String()
}

func writeExports(b *strings.Builder, dialect domain.ShellDialect, vars map[string]string) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteString("export ")
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(dialect.Quote(vars[name]))
		b.WriteString("\n")
	}
}

// selfLocate returns the dialect-specific snippet resolving the directory
// containing the sourced script.
func selfLocate(dialect domain.ShellDialect) string {
	switch dialect {
	case domain.DialectZsh:
		return "_benv_dir=\"$(cd \"$(dirname -- \"${(%):-%x}\")\" && pwd)\"\n"
	default:
		return "_benv_dir=\"$(cd \"$(dirname -- \"${BASH_SOURCE[0]:-$0}\")\" && pwd)\"\n"
	}
}
