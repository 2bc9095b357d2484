// Package pathutil holds the path resolution primitives shared by the
// classifier, zone labeller, and backup engines. Canonicalization is
// mandatory everywhere a path crosses a policy boundary; symlink
// indirection must not be an escape vector.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandUser expands a leading ~ to the current user's home directory.
// Unexpandable paths are returned unchanged.
func ExpandUser(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// Canonicalize returns the absolute, symlink-resolved form of path.
// When the path (or a suffix of it) does not exist, the deepest existing
// ancestor is resolved and the remainder re-attached, so non-existent
// targets still classify against their real parent directory.
func Canonicalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	prefix := abs
	var tail []string
	for {
		if resolved, err := filepath.EvalSymlinks(prefix); err == nil {
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved
		}
		parent := filepath.Dir(prefix)
		if parent == prefix {
			return abs
		}
		tail = append(tail, filepath.Base(prefix))
		prefix = parent
	}
}

// IsInside reports whether path equals root or lives beneath it.
// Both arguments must already be canonicalized.
func IsInside(path, root string) bool {
	if root == "" {
		return false
	}
	return path == root || strings.HasPrefix(path, strings.TrimSuffix(root, "/")+"/")
}

// Scrub removes control characters from s so diagnostics can never
// confuse the host's stdout parser.
func Scrub(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
