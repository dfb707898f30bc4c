package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/benv-dev/benv/internal/adapters/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRegistry creates a registry in a fresh temporary directory along with a
// helper for creating target directories.
func newRegistry(t *testing.T) (*registry.Registry, string) {
	t.Helper()
	tmp := t.TempDir()
	reg, err := registry.Open(filepath.Join(tmp, "registry"))
	require.NoError(t, err)
	return reg, tmp
}

func targetDir(t *testing.T, base, name string) string {
	t.Helper()
	dir := filepath.Join(base, "targets", name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg, tmp := newRegistry(t)
	target := targetDir(t, tmp, "env1")

	key, err := reg.Register(target)
	require.NoError(t, err)

	entry, err := reg.Get(key)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, target, entry.Path)
}

func TestRegistry_RegisterTwiceIsNoop(t *testing.T) {
	reg, tmp := newRegistry(t)
	target := targetDir(t, tmp, "env1")

	key1, err := reg.Register(target)
	require.NoError(t, err)
	key2, err := reg.Register(target)
	require.NoError(t, err)

	assert.Equal(t, key1, key2)
}

func TestRegistry_GetAfterTargetRemoved(t *testing.T) {
	reg, tmp := newRegistry(t)
	target := targetDir(t, tmp, "env1")

	key, err := reg.Register(target)
	require.NoError(t, err)

	// The entry outlives its target; staleness is the caller's concern.
	require.NoError(t, os.RemoveAll(target))

	entry, err := reg.Get(key)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, target, entry.Path)
}

func TestRegistry_Unregister(t *testing.T) {
	reg, tmp := newRegistry(t)
	target := targetDir(t, tmp, "env1")

	key, err := reg.Register(target)
	require.NoError(t, err)

	removed, err := reg.Unregister(key)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, target, removed.Path)

	entry, err := reg.Get(key)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestRegistry_UnregisterNonexistent(t *testing.T) {
	reg, _ := newRegistry(t)

	removed, err := reg.Unregister("nonexistent")
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestRegistry_Entries(t *testing.T) {
	reg, tmp := newRegistry(t)
	target1 := targetDir(t, tmp, "env1")
	target2 := targetDir(t, tmp, "env2")

	key1, err := reg.Register(target1)
	require.NoError(t, err)
	key2, err := reg.Register(target2)
	require.NoError(t, err)

	entries, err := reg.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byKey := map[string]string{}
	for _, e := range entries {
		byKey[e.Key] = e.Path
	}
	assert.Equal(t, target1, byKey[key1])
	assert.Equal(t, target2, byKey[key2])
}
