package domain

import "slices"

// SourceTree is a snapshot of a buildable source directory.
// It is produced once per session and treated as an immutable value afterwards.
type SourceTree struct {
	// Root is the absolute path of the tree on disk.
	Root string

	// Digest is the content hash of every file in the tree.
	Digest string

	// Files are the tree's file paths relative to Root, sorted.
	Files []string
}

// Has reports whether the tree contains the given relative file path.
func (s SourceTree) Has(rel string) bool {
	_, found := slices.BinarySearch(s.Files, rel)
	return found
}
