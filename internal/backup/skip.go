package backup

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// skipNames are path components whose contents are never worth backing
// up: VCS metadata, dependency trees, build outputs, caches. The
// deletion itself still proceeds since the zone is trusted; only the
// backup is skipped.
var skipNames = map[string]bool{
	".git": true, ".svn": true, ".hg": true,
	"node_modules": true,
	"venv":         true, ".venv": true, "__pycache__": true,
	".pytest_cache": true, ".mypy_cache": true, ".ruff_cache": true, ".tox": true,
	"dist": true, "build": true, "out": true, "target": true,
	".next": true, ".nuxt": true,
	".cache": true, "coverage": true,
	".idea": true, ".vscode": true,
}

// skipPatterns match generated metadata directories by shape.
var skipPatterns = []glob.Glob{
	glob.MustCompile("*.egg-info"),
	glob.MustCompile("*.dist-info"),
}

func skipComponent(name string) bool {
	if skipNames[name] {
		return true
	}
	for _, g := range skipPatterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// SkipReason returns the path component that disqualifies path from
// backup, or "" when none does.
func SkipReason(path string) string {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && skipComponent(part) {
			return part
		}
	}
	return ""
}
