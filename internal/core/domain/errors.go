package domain

import "go.trai.ch/zerr"

var (
	// ErrEmptyLockfile is returned when a lockfile declares no packages.
	ErrEmptyLockfile = zerr.New("lockfile declares no packages")

	// ErrMissingOutputPath is returned when a package's output tree does not exist on disk.
	ErrMissingOutputPath = zerr.New("package output path does not exist")

	// ErrMissingScript is returned when a declared hook or on-activate script file does not exist.
	ErrMissingScript = zerr.New("declared activation script does not exist")

	// ErrFileConflict is returned when two or more packages provide differing
	// content at the same relative path and priorities cannot break the tie.
	ErrFileConflict = zerr.New("unresolvable file conflicts")
)
