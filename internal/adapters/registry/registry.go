// Package registry tracks built environment links in a state directory of
// symlinks. Entries survive across processes; links may grow stale when an
// environment is moved or deleted out of band.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/benv-dev/benv/internal/core/ports"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

var _ ports.EnvironmentRegistry = (*Registry)(nil)

// Registry implements ports.EnvironmentRegistry. Each registered environment
// is a symlink in stateDir named by a content hash of the canonicalized
// target path, so registering the same path twice is naturally idempotent.
type Registry struct {
	stateDir string
}

// Open creates the registry state directory if needed and returns a Registry
// backed by it.
func Open(stateDir string) (*Registry, error) {
	if err := os.MkdirAll(stateDir, 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create registry state directory"), "path", stateDir)
	}
	return &Registry{stateDir: stateDir}, nil
}

// Register records the environment link at path and returns its key.
func (r *Registry) Register(path string) (string, error) {
	canonical, err := canonicalize(path)
	if err != nil {
		return "", err
	}

	key := encodePath(canonical)
	linkPath := filepath.Join(r.stateDir, key)

	err = os.Symlink(canonical, linkPath)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return key, nil
	}
	return "", zerr.With(zerr.Wrap(err, "failed to create registry symlink"), "path", linkPath)
}

// Unregister removes the entry for key and returns it. Unknown keys are a
// no-op.
func (r *Registry) Unregister(key string) (*ports.RegistryEntry, error) {
	entry, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	if err := os.Remove(filepath.Join(r.stateDir, key)); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to remove registry symlink"), "key", key)
	}
	return entry, nil
}

// Get returns the entry for key, or nil if not registered.
func (r *Registry) Get(key string) (*ports.RegistryEntry, error) {
	target, err := os.Readlink(filepath.Join(r.stateDir, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read registry symlink"), "key", key)
	}
	return &ports.RegistryEntry{Key: key, Path: target}, nil
}

// Entries returns all registered entries, including links whose target no
// longer exists.
func (r *Registry) Entries() ([]ports.RegistryEntry, error) {
	dirEntries, err := os.ReadDir(r.stateDir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read registry state directory"), "path", r.stateDir)
	}

	entries := make([]ports.RegistryEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		target, err := os.Readlink(filepath.Join(r.stateDir, de.Name()))
		if err != nil {
			continue
		}
		entries = append(entries, ports.RegistryEntry{Key: de.Name(), Path: target})
	}
	return entries, nil
}

// canonicalize makes the path absolute and clean without resolving the final
// component: out-links are themselves symlinks and must register under their
// own location, not their current target.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to canonicalize path"), "path", path)
	}
	return filepath.Clean(abs), nil
}

// encodePath returns a semi-unique identifier for the location: the xxhash
// of the canonical path, rendered as hex.
func encodePath(canonical string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(canonical))
}
