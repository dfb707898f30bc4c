package fs

import (
	"bytes"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Hasher computes content digests used to decide whether two packages
// provide identical bytes at the same path.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashFile computes the XXHash of a file's content. For symlinks the digest
// covers the link target, so two links pointing at the same target compare
// as identical.
func (h *Hasher) HashFile(path string) (uint64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", path)
		}
		return xxhash.Sum64String("symlink\x00" + target), nil
	}

	f, err := os.Open(path) //nolint:gosec // Path comes from a declared package tree
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// EqualContent confirms byte-for-byte equality of two regular files. It is
// called after a digest match, so a stray hash collision never silently
// drops a real conflict.
func (h *Hasher) EqualContent(a, b string) (bool, error) {
	fa, err := os.Open(a) //nolint:gosec // Path comes from a declared package tree
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to open file"), "path", a)
	}
	defer fa.Close() //nolint:errcheck // Best effort close in defer

	fb, err := os.Open(b) //nolint:gosec // Path comes from a declared package tree
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to open file"), "path", b)
	}
	defer fb.Close() //nolint:errcheck // Best effort close in defer

	bufA := make([]byte, 64*1024)
	bufB := make([]byte, 64*1024)
	for {
		nA, errA := io.ReadFull(fa, bufA)
		nB, errB := io.ReadFull(fb, bufB)
		if !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}
		if errA == io.EOF || errA == io.ErrUnexpectedEOF || errB == io.EOF || errB == io.ErrUnexpectedEOF {
			return nA == nB && (errA != nil) == (errB != nil), nil
		}
		if errA != nil {
			return false, zerr.With(zerr.Wrap(errA, "failed to read file"), "path", a)
		}
		if errB != nil {
			return false, zerr.With(zerr.Wrap(errB, "failed to read file"), "path", b)
		}
	}
}
