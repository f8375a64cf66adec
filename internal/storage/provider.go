// Package storage defines the read-only project tree abstraction used by scanners.
package storage

import "io/fs"

// Provider is the interface for reading the project tree. All paths are
// slash-separated and relative to the project root.
type Provider interface {
	// Root returns the absolute project root.
	Root() string
	// Glob returns files under dir matching a doublestar pattern, sorted.
	// A missing dir yields no matches and no error.
	Glob(dir, pattern string) ([]string, error)
	// ReadDir lists the entries of dir, sorted by name.
	ReadDir(dir string) ([]fs.DirEntry, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Exists reports whether path exists.
	Exists(path string) bool
	// HasEntries reports whether dir is a directory with at least one entry.
	HasEntries(dir string) bool
}
