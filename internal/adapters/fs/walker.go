// Package fs provides file system adapters for walking, hashing, and
// materializing package trees.
package fs

import (
	"io/fs"
	"path/filepath"

	"go.trai.ch/zerr"
)

// Walker provides file walking functionality over package output trees.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// Walk calls fn for every non-directory entry under root with its path
// relative to root. Directories are traversed but not reported: the merge
// unions directory structure and only leaf entries can collide.
func (w *Walker) Walk(root string, fn func(relPath string, d fs.DirEntry) error) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to read package tree"), "path", path)
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
		}

		return fn(rel, d)
	})
	if err != nil {
		return zerr.With(err, "root", root)
	}
	return nil
}
