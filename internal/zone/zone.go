// Package zone labels resolved paths for deletion policy. Classification
// is purely lexical over canonicalized paths: deterministic prefix
// matching, no heuristics.
package zone

import (
	"os"

	"github.com/frier-sam/claude-code-protect/internal/model"
	"github.com/frier-sam/claude-code-protect/internal/pathutil"
)

// Roots holds the zone roots one invocation classifies against.
// All entries are canonicalized.
type Roots struct {
	Workspace   string
	Whitelisted []string
	Tmp         []string
}

// DefaultTmpDirs returns the platform temp roots, canonicalized and
// deduplicated. On macOS /tmp resolves to /private/tmp, which is why
// both appear in the candidate list.
func DefaultTmpDirs() []string {
	candidates := []string{"/tmp", "/var/tmp", "/private/tmp", os.TempDir()}
	seen := make(map[string]bool, len(candidates))
	var dirs []string
	for _, c := range candidates {
		resolved := pathutil.Canonicalize(c)
		if resolved == "" || seen[resolved] {
			continue
		}
		seen[resolved] = true
		dirs = append(dirs, resolved)
	}
	return dirs
}

// Classify labels a canonicalized path and returns the matched zone root.
// A path equal to a zone root is inside that zone. Every path gets
// exactly one label; the evaluation order never changes.
func (r Roots) Classify(path string) (model.Zone, string) {
	if pathutil.IsInside(path, r.Workspace) {
		return model.ZoneWorkspace, r.Workspace
	}
	for _, wl := range r.Whitelisted {
		if pathutil.IsInside(path, wl) {
			return model.ZoneWhitelist, wl
		}
	}
	for _, tmp := range r.Tmp {
		if pathutil.IsInside(path, tmp) {
			return model.ZoneTmp, tmp
		}
	}
	return model.ZoneOutside, ""
}
