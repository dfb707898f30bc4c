package merge_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/benv-dev/benv/internal/adapters/fs"
	"github.com/benv-dev/benv/internal/adapters/telemetry"
	"github.com/benv-dev/benv/internal/core/domain"
	"github.com/benv-dev/benv/internal/engine/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardLogger struct{}

func (discardLogger) Info(string) {}
func (discardLogger) Warn(string) {}
func (discardLogger) Error(error) {}

func newMerger() *merge.Merger {
	return merge.NewMerger(fs.NewWalker(), fs.NewHasher(), fs.NewLinker(), discardLogger{}, telemetry.NewNoOp())
}

// newPackage materializes an output tree with the given files and returns
// the resolved package.
func newPackage(t *testing.T, name, version string, priority int, files map[string]string) domain.ResolvedPackage {
	t.Helper()
	root := filepath.Join(t.TempDir(), name+"-"+version)
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	}
	return domain.ResolvedPackage{
		Name:       domain.NewInternedString(name),
		Version:    domain.NewInternedString(version),
		OutputPath: root,
		Priority:   priority,
	}
}

// mergeAll runs the full merge pipeline, failing the test on unresolved
// conflicts, and returns the materialized tree.
func mergeAll(t *testing.T, packages []domain.ResolvedPackage) domain.MergedTree {
	t.Helper()
	merger := newMerger()
	resolver := merge.NewResolver()

	plan, conflicts, err := merger.Merge(context.Background(), packages)
	require.NoError(t, err)
	for _, c := range conflicts {
		res := resolver.Resolve(c)
		require.True(t, res.Resolved, "unexpected unresolved conflict at %s", c.RelPath)
		require.NoError(t, plan.Choose(c.RelPath, res.Winner))
	}

	dest := t.TempDir()
	tree, err := merger.Materialize(context.Background(), plan, dest)
	require.NoError(t, err)
	return tree
}

func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestMerger_SinglePackageIdentity(t *testing.T) {
	files := map[string]string{
		"bin/vim":            "elf-bytes",
		"share/man/vim.1":    "manual",
		"etc/vimrc":          "set nocompatible",
		"lib/nested/deep.so": "library",
	}
	pkg := newPackage(t, "vim", "9.1", 5, files)

	tree := mergeAll(t, []domain.ResolvedPackage{pkg})

	assert.Equal(t, files, readTree(t, tree.Root), "merged tree must mirror the single package's output tree")
	for rel := range files {
		assert.Equal(t, "vim@9.1", tree.Owners[rel])
	}
}

func TestMerger_DisjointUnion(t *testing.T) {
	a := newPackage(t, "vim", "9.1", 5, map[string]string{"bin/vim": "vim-elf"})
	b := newPackage(t, "ripgrep", "14.0", 5, map[string]string{"bin/rg": "rg-elf"})

	tree := mergeAll(t, []domain.ResolvedPackage{a, b})

	merged := readTree(t, tree.Root)
	assert.Equal(t, "vim-elf", merged["bin/vim"])
	assert.Equal(t, "rg-elf", merged["bin/rg"])
}

func TestMerger_DuplicateContentIsNotAConflict(t *testing.T) {
	// Same priority, identical bytes at the same path: duplicate provision
	// by design (shared licenses etc.), never an error.
	a := newPackage(t, "pkg-a", "1.0", 5, map[string]string{"share/LICENSE": "MIT"})
	b := newPackage(t, "pkg-b", "1.0", 5, map[string]string{"share/LICENSE": "MIT"})

	merger := newMerger()
	_, conflicts, err := merger.Merge(context.Background(), []domain.ResolvedPackage{a, b})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestMerger_PriorityWinsIndependentOfOrder(t *testing.T) {
	high := newPackage(t, "vim-full", "9.1", 1, map[string]string{"bin/vim": "full-build"})
	low := newPackage(t, "vim", "9.0", 9, map[string]string{"bin/vim": "minimal-build"})

	for name, order := range map[string][]domain.ResolvedPackage{
		"high first": {high, low},
		"low first":  {low, high},
	} {
		t.Run(name, func(t *testing.T) {
			tree := mergeAll(t, order)
			merged := readTree(t, tree.Root)
			assert.Equal(t, "full-build", merged["bin/vim"], "lower priority value must win")
			assert.Equal(t, "vim-full@9.1", tree.Owners["bin/vim"])
		})
	}
}

func TestMerger_EqualPriorityConflict(t *testing.T) {
	a := newPackage(t, "vim", "9.0", 5, map[string]string{"bin/vim": "build-a"})
	b := newPackage(t, "vim", "9.1", 5, map[string]string{"bin/vim": "build-b"})

	merger := newMerger()
	_, conflicts, err := merger.Merge(context.Background(), []domain.ResolvedPackage{a, b})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	resolver := merge.NewResolver()
	res := resolver.Resolve(conflicts[0])
	assert.False(t, res.Resolved)

	desc := conflicts[0].Describe()
	assert.Contains(t, desc, "vim@9.0")
	assert.Contains(t, desc, "vim@9.1")
	assert.Contains(t, desc, "bin/vim")
}

func TestMerger_AllConflictsReported(t *testing.T) {
	a := newPackage(t, "pkg-a", "1.0", 5, map[string]string{"bin/x": "a", "bin/y": "a"})
	b := newPackage(t, "pkg-b", "1.0", 5, map[string]string{"bin/x": "b", "bin/y": "b"})

	merger := newMerger()
	_, conflicts, err := merger.Merge(context.Background(), []domain.ResolvedPackage{a, b})
	require.NoError(t, err)
	assert.Len(t, conflicts, 2, "every conflicting path must be reported, not just the first")
}

func TestMerger_SymlinksSurviveMerge(t *testing.T) {
	pkg := newPackage(t, "coreutils", "9.4", 5, map[string]string{"bin/ls": "elf"})
	require.NoError(t, os.Symlink("ls", filepath.Join(pkg.OutputPath, "bin", "dir")))

	tree := mergeAll(t, []domain.ResolvedPackage{pkg})

	target, err := os.Readlink(filepath.Join(tree.Root, "bin", "dir"))
	require.NoError(t, err)
	assert.Equal(t, "ls", target)
}

func TestMerger_MissingTreeFails(t *testing.T) {
	pkg := domain.ResolvedPackage{
		Name:       domain.NewInternedString("ghost"),
		Version:    domain.NewInternedString("1.0"),
		OutputPath: filepath.Join(t.TempDir(), "missing"),
		Priority:   1,
	}

	merger := newMerger()
	_, _, err := merger.Merge(context.Background(), []domain.ResolvedPackage{pkg})
	assert.Error(t, err)
}

func TestPlan_ChooseRejectsNonContributor(t *testing.T) {
	a := newPackage(t, "pkg-a", "1.0", 5, map[string]string{"bin/x": "a"})
	b := newPackage(t, "pkg-b", "1.0", 5, map[string]string{"bin/x": "b"})
	outsider := newPackage(t, "outsider", "1.0", 1, map[string]string{"bin/z": "z"})

	merger := newMerger()
	plan, conflicts, err := merger.Merge(context.Background(), []domain.ResolvedPackage{a, b})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	assert.Error(t, plan.Choose("bin/x", outsider))
}

func TestMerger_MaterializeRejectsContestedPlan(t *testing.T) {
	a := newPackage(t, "pkg-a", "1.0", 5, map[string]string{"bin/x": "a"})
	b := newPackage(t, "pkg-b", "1.0", 5, map[string]string{"bin/x": "b"})

	merger := newMerger()
	plan, conflicts, err := merger.Merge(context.Background(), []domain.ResolvedPackage{a, b})
	require.NoError(t, err)
	require.NotEmpty(t, conflicts)

	_, err = merger.Materialize(context.Background(), plan, t.TempDir())
	assert.Error(t, err, "materializing with unresolved conflicts must fail")
}
