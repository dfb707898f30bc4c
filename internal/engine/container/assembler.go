// Package container assembles a composed environment tree into a layered
// container image and emits a self-contained builder script that streams the
// image archive to stdout.
package container

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/benv-dev/benv/internal/adapters/fs"
	"github.com/benv-dev/benv/internal/core/domain"
	"github.com/benv-dev/benv/internal/core/ports"
	"github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"
)

// BuilderScriptName is the builder script's file name inside the
// environment root.
const BuilderScriptName = "container-builder"

// epoch is the fixed modification time stamped on every archive entry.
// Timestamps would otherwise make two builds of the same tree differ.
var epoch = time.Unix(0, 0).UTC()

// imageConfig is the container config blob referenced by the manifest.
type imageConfig struct {
	Architecture string        `json:"architecture"`
	OS           string        `json:"os"`
	Config       runtimeConfig `json:"config"`
	RootFS       rootFS        `json:"rootfs"`
}

type runtimeConfig struct {
	Env []string `json:"Env"`
}

type rootFS struct {
	Type    string   `json:"type"`
	DiffIDs []string `json:"diff_ids"`
}

// manifestEntry is one row of the archive's top-level manifest.json.
type manifestEntry struct {
	Config   string   `json:"Config"`
	RepoTags []string `json:"RepoTags"`
	Layers   []string `json:"Layers"`
}

// Assembler builds container image archives from merged environment trees.
type Assembler struct {
	linker *fs.Linker
	logger ports.Logger
}

// NewAssembler creates a new Assembler.
func NewAssembler(linker *fs.Linker, logger ports.Logger) *Assembler {
	return &Assembler{linker: linker, logger: logger}
}

// Assemble produces the builder script for the environment at tree.Root and
// returns its path. The script, when executed, writes a tar archive to
// stdout containing <digest>/layer.tar, <digest>.json, and manifest.json.
// Digests are sha256 over each blob's final bytes: the blob is complete
// before its name exists.
func (a *Assembler) Assemble(ctx context.Context, tree domain.MergedTree, system string, env map[string]string) (string, error) {
	layer, err := a.buildLayer(ctx, tree.Root)
	if err != nil {
		return "", err
	}
	layerDigest := digest.FromBytes(layer)

	arch, osName := platformFor(system)
	configBytes, err := json.Marshal(imageConfig{
		Architecture: arch,
		OS:           osName,
		Config:       runtimeConfig{Env: envList(env)},
		RootFS: rootFS{
			Type:    "layers",
			DiffIDs: []string{layerDigest.String()},
		},
	})
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode image config")
	}
	configDigest := digest.FromBytes(configBytes)

	manifestBytes, err := json.Marshal([]manifestEntry{{
		Config:   configDigest.Encoded() + ".json",
		RepoTags: []string{},
		Layers:   []string{layerDigest.Encoded() + "/layer.tar"},
	}})
	if err != nil {
		return "", zerr.Wrap(err, "failed to encode image manifest")
	}

	image, err := buildImageArchive(layerDigest.Encoded(), layer, configDigest.Encoded(), configBytes, manifestBytes)
	if err != nil {
		return "", err
	}

	scriptPath := filepath.Join(tree.Root, BuilderScriptName)
	if err := a.linker.WriteFile(scriptPath, renderBuilderScript(image), 0o755); err != nil {
		return "", err
	}

	a.logger.Info("assembled container builder script")
	return scriptPath, nil
}

// buildLayer produces a deterministic tar archive of the environment tree:
// entries in sorted path order, fixed epoch timestamps, root ownership.
func (a *Assembler) buildLayer(ctx context.Context, root string) ([]byte, error) {
	type layerEntry struct {
		rel  string
		info os.FileInfo
	}

	var entries []layerEntry
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read environment tree"), "path", path)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}
		if rel == "." || rel == BuilderScriptName {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to stat entry"), "path", path)
		}
		entries = append(entries, layerEntry{rel: rel, info: info})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, zerr.Wrap(err, "container assembly interrupted")
		}

		var link string
		if entry.info.Mode()&os.ModeSymlink != 0 {
			link, err = os.Readlink(filepath.Join(root, entry.rel))
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", entry.rel)
			}
		}

		hdr, err := tar.FileInfoHeader(entry.info, link)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to build tar header"), "path", entry.rel)
		}
		hdr.Name = filepath.ToSlash(entry.rel)
		if entry.info.IsDir() {
			hdr.Name += "/"
		}
		hdr.Uid = 0
		hdr.Gid = 0
		hdr.Uname = ""
		hdr.Gname = ""
		hdr.ModTime = epoch
		hdr.AccessTime = time.Time{}
		hdr.ChangeTime = time.Time{}

		if err := tw.WriteHeader(hdr); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to write tar header"), "path", entry.rel)
		}

		if entry.info.Mode().IsRegular() {
			f, err := os.Open(filepath.Join(root, entry.rel)) //nolint:gosec // Path comes from the build staging tree
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to open entry"), "path", entry.rel)
			}
			_, err = io.Copy(tw, f)
			_ = f.Close()
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to archive entry"), "path", entry.rel)
			}
		}
	}

	if err := tw.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to finalize layer archive")
	}
	return buf.Bytes(), nil
}

// buildImageArchive wraps the finalized blobs into the outer image tar. The
// digests name content that already exists; nothing is hashed after this
// point.
func buildImageArchive(layerHex string, layer []byte, configHex string, config, manifest []byte) ([]byte, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	writeDir := func(name string) error {
		return tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeDir,
			Mode:     0o755,
			ModTime:  epoch,
		})
	}
	writeFile := func(name string, data []byte) error {
		hdr := &tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(data)),
			ModTime:  epoch,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		_, err := tw.Write(data)
		return err
	}

	if err := writeFile(configHex+".json", config); err != nil {
		return nil, zerr.Wrap(err, "failed to archive image config")
	}
	if err := writeDir(layerHex + "/"); err != nil {
		return nil, zerr.Wrap(err, "failed to archive layer directory")
	}
	if err := writeFile(layerHex+"/layer.tar", layer); err != nil {
		return nil, zerr.Wrap(err, "failed to archive image layer")
	}
	if err := writeFile("manifest.json", manifest); err != nil {
		return nil, zerr.Wrap(err, "failed to archive image manifest")
	}

	if err := tw.Close(); err != nil {
		return nil, zerr.Wrap(err, "failed to finalize image archive")
	}
	return buf.Bytes(), nil
}

// renderBuilderScript embeds the image archive into a self-contained shell
// script that decodes it to stdout. Embedding keeps the script runnable even
// after the environment tree is garbage collected.
func renderBuilderScript(image []byte) []byte {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# Emits the container image archive for this environment to stdout.\n")
	b.WriteString("# Generated from the lockfile; do not edit.\n")
	b.WriteString("exec base64 -d <<'BENV_IMAGE'\n")

	encoded := base64.StdEncoding.EncodeToString(image)
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\nBENV_IMAGE\n")
	return []byte(b.String())
}

// envList renders the variable mapping as sorted KEY=VALUE strings.
func envList(env map[string]string) []string {
	list := make([]string, 0, len(env))
	for name, value := range env {
		list = append(list, name+"="+value)
	}
	sort.Strings(list)
	return list
}

// platformFor maps a lockfile system descriptor to image platform fields.
func platformFor(system string) (arch, osName string) {
	arch, osName = "amd64", "linux"

	parts := strings.SplitN(system, "-", 2)
	if len(parts) == 2 {
		switch parts[0] {
		case "x86_64":
			arch = "amd64"
		case "aarch64":
			arch = "arm64"
		case "i686":
			arch = "386"
		}
		if parts[1] == "darwin" {
			osName = "darwin"
		}
	}
	return arch, osName
}
