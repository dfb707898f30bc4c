package container_test

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/benv-dev/benv/internal/adapters/fs"
	"github.com/benv-dev/benv/internal/core/domain"
	"github.com/benv-dev/benv/internal/engine/container"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardLogger struct{}

func (discardLogger) Info(string) {}
func (discardLogger) Warn(string) {}
func (discardLogger) Error(error) {}

func newAssembler() *container.Assembler {
	return container.NewAssembler(fs.NewLinker(), discardLogger{})
}

func makeEnvTree(t *testing.T) domain.MergedTree {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "tool"), []byte("#!/bin/sh\necho tool\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("composed\n"), 0o644))
	require.NoError(t, os.Symlink("notes.txt", filepath.Join(root, "notes.link")))

	return domain.MergedTree{Root: root}
}

// runBuilder executes the builder script with sh and returns the decoded
// image archive bytes.
func runBuilder(t *testing.T, scriptPath string) []byte {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var out bytes.Buffer
	cmd := exec.Command("sh", scriptPath)
	cmd.Stdout = &out
	require.NoError(t, cmd.Run())
	return out.Bytes()
}

func readArchive(t *testing.T, image []byte) map[string][]byte {
	t.Helper()

	entries := map[string][]byte{}
	tr := tar.NewReader(bytes.NewReader(image))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if hdr.Typeflag == tar.TypeDir {
			continue
		}
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		entries[hdr.Name] = data
	}
	return entries
}

func TestAssembler_ImageArchiveLayout(t *testing.T) {
	tree := makeEnvTree(t)

	scriptPath, err := newAssembler().Assemble(context.Background(), tree, "x86_64-linux", map[string]string{"GREETING": "hello"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tree.Root, container.BuilderScriptName), scriptPath)

	info, err := os.Stat(scriptPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries := readArchive(t, runBuilder(t, scriptPath))

	layerRe := regexp.MustCompile(`^[0-9a-f]{64}/layer\.tar$`)
	configRe := regexp.MustCompile(`^[0-9a-f]{64}\.json$`)

	var layerName, configName string
	for name := range entries {
		switch {
		case layerRe.MatchString(name):
			layerName = name
		case configRe.MatchString(name):
			configName = name
		}
	}
	require.NotEmpty(t, layerName)
	require.NotEmpty(t, configName)
	require.Contains(t, entries, "manifest.json")

	var manifest []struct {
		Config   string   `json:"Config"`
		RepoTags []string `json:"RepoTags"`
		Layers   []string `json:"Layers"`
	}
	require.NoError(t, json.Unmarshal(entries["manifest.json"], &manifest))
	require.Len(t, manifest, 1)
	assert.Equal(t, configName, manifest[0].Config)
	assert.Equal(t, []string{layerName}, manifest[0].Layers)
}

func TestAssembler_DigestsNameTheirContent(t *testing.T) {
	tree := makeEnvTree(t)

	scriptPath, err := newAssembler().Assemble(context.Background(), tree, "x86_64-linux", nil)
	require.NoError(t, err)

	entries := readArchive(t, runBuilder(t, scriptPath))
	for name, data := range entries {
		if name == "manifest.json" {
			continue
		}
		hex := digest.FromBytes(data).Encoded()
		assert.Contains(t, name, hex, "entry %s must be named by its sha256", name)
	}
}

func TestAssembler_ConfigReflectsSystemAndVars(t *testing.T) {
	tree := makeEnvTree(t)

	scriptPath, err := newAssembler().Assemble(context.Background(), tree, "aarch64-linux", map[string]string{
		"ZED":   "last",
		"ALPHA": "first",
	})
	require.NoError(t, err)

	entries := readArchive(t, runBuilder(t, scriptPath))

	var config struct {
		Architecture string `json:"architecture"`
		OS           string `json:"os"`
		Config       struct {
			Env []string `json:"Env"`
		} `json:"config"`
		RootFS struct {
			Type    string   `json:"type"`
			DiffIDs []string `json:"diff_ids"`
		} `json:"rootfs"`
	}

	var configName string
	configRe := regexp.MustCompile(`^[0-9a-f]{64}\.json$`)
	for name := range entries {
		if configRe.MatchString(name) {
			configName = name
		}
	}
	require.NotEmpty(t, configName)
	require.NoError(t, json.Unmarshal(entries[configName], &config))

	assert.Equal(t, "arm64", config.Architecture)
	assert.Equal(t, "linux", config.OS)
	assert.Equal(t, []string{"ALPHA=first", "ZED=last"}, config.Config.Env)
	assert.Equal(t, "layers", config.RootFS.Type)
	require.Len(t, config.RootFS.DiffIDs, 1)

	layerRe := regexp.MustCompile(`^([0-9a-f]{64})/layer\.tar$`)
	for name := range entries {
		if m := layerRe.FindStringSubmatch(name); m != nil {
			assert.Equal(t, "sha256:"+m[1], config.RootFS.DiffIDs[0])
		}
	}
}

func TestAssembler_LayerContainsTreeWithoutBuilderScript(t *testing.T) {
	tree := makeEnvTree(t)

	scriptPath, err := newAssembler().Assemble(context.Background(), tree, "x86_64-linux", nil)
	require.NoError(t, err)

	entries := readArchive(t, runBuilder(t, scriptPath))

	var layer []byte
	layerRe := regexp.MustCompile(`^[0-9a-f]{64}/layer\.tar$`)
	for name, data := range entries {
		if layerRe.MatchString(name) {
			layer = data
		}
	}
	require.NotNil(t, layer)

	names := map[string]bool{}
	tr := tar.NewReader(bytes.NewReader(layer))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names[hdr.Name] = true
		assert.True(t, hdr.ModTime.Unix() == 0, "entry %s must carry the epoch timestamp", hdr.Name)
		assert.Zero(t, hdr.Uid)
		assert.Zero(t, hdr.Gid)
	}

	assert.True(t, names["bin/tool"])
	assert.True(t, names["notes.txt"])
	assert.True(t, names["notes.link"])
	assert.False(t, names[container.BuilderScriptName])
}

func TestAssembler_Deterministic(t *testing.T) {
	tree := makeEnvTree(t)

	scriptPath, err := newAssembler().Assemble(context.Background(), tree, "x86_64-linux", map[string]string{"A": "1"})
	require.NoError(t, err)
	first, err := os.ReadFile(scriptPath)
	require.NoError(t, err)

	_, err = newAssembler().Assemble(context.Background(), tree, "x86_64-linux", map[string]string{"A": "1"})
	require.NoError(t, err)
	second, err := os.ReadFile(scriptPath)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
