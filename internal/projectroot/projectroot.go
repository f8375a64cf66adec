// Package projectroot locates the project directory that holds the component tree.
package projectroot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/kitscan/internal/apperr"
)

// DefaultMarker is the directory whose presence marks a project root.
const DefaultMarker = ".claude"

// Find walks from start up through its ancestors and returns the first
// directory that contains a directory named marker. start may be a file, in
// which case the search begins at its parent. It returns apperr.ErrNotFound
// when the filesystem root is reached without a match.
func Find(start, marker string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("projectroot: resolve %s: %w", start, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for dir := abs; ; {
		if isDir(filepath.Join(dir, marker)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("projectroot: no %s above %s: %w", marker, abs, apperr.ErrNotFound)
		}
		dir = parent
	}
}

// Resolve tries Find from each start in order and falls back to the current
// working directory when none of them sits below a marker directory.
func Resolve(marker string, starts ...string) (string, error) {
	for _, s := range starts {
		if s == "" {
			continue
		}
		if root, err := Find(s, marker); err == nil {
			return root, nil
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("projectroot: working directory: %w", err)
	}
	return wd, nil
}

// ExecutableDir returns the directory of the running binary, or "" if it
// cannot be determined.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
