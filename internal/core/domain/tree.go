package domain

// MergedTree is the finished composed filesystem tree. Every relative path
// maps to exactly one owning package; the invariant holds because the tree
// is only materialized after all conflicts are resolved.
type MergedTree struct {
	// Root is the absolute path of the tree on disk.
	Root string

	// Owners maps each relative file path to the identifier of the package
	// that contributed it.
	Owners map[string]string
}
