package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/frier-sam/claude-code-protect/internal/model"
	"github.com/frier-sam/claude-code-protect/internal/pathutil"
)

// verbSpec describes the options a destructive verb understands. A token
// that looks like an option the verb does not understand downgrades the
// segment to unresolvable rather than risk misreading an argument.
type verbSpec struct {
	shortFlags string
	longFlags  map[string]bool
	valueFlags map[string]bool
}

func flagSet(flags ...string) map[string]bool {
	m := make(map[string]bool, len(flags))
	for _, f := range flags {
		m[f] = true
	}
	return m
}

// deleteVerbs is the destructive verb table. Windows verbs are kept so
// command text is classified uniformly regardless of origin.
var deleteVerbs = map[string]verbSpec{
	"rm": {
		shortFlags: "rRfidvIP",
		longFlags: flagSet("--recursive", "--force", "--interactive",
			"--dir", "--verbose", "--one-file-system",
			"--preserve-root", "--no-preserve-root"),
	},
	"rmdir": {
		shortFlags: "pv",
		longFlags:  flagSet("--parents", "--verbose", "--ignore-fail-on-non-empty"),
	},
	"unlink": {},
	"shred": {
		shortFlags: "fuvxzn",
		longFlags:  flagSet("--force", "--remove", "--verbose", "--exact", "--zero", "--iterations"),
		valueFlags: flagSet("-n", "--iterations"),
	},
	"trash": {
		shortFlags: "rfv",
		longFlags:  flagSet("--force", "--verbose"),
	},
	"trash-put": {
		shortFlags: "fv",
		longFlags:  flagSet("--force", "--verbose"),
	},
	"rimraf": {
		shortFlags: "gv",
		longFlags:  flagSet("--glob", "--verbose", "--preserve-root", "--no-preserve-root"),
	},
	"del":         {},
	"erase":       {},
	"rd":          {},
	"remove-item": {longFlags: flagSet("-recurse", "-force", "-confirm", "-whatif", "-path", "-literalpath")},
	"ri":          {longFlags: flagSet("-recurse", "-force", "-confirm", "-whatif", "-path", "-literalpath")},
}

// baseName lowercases the final path element of a token so that
// /bin/rm and Remove-Item both hit the verb table.
func baseName(tok string) string {
	return strings.ToLower(filepath.Base(tok))
}

func isDeleteVerb(tok string) bool {
	_, ok := deleteVerbs[baseName(tok)]
	return ok
}

func hasGlobMeta(tok string) bool {
	return strings.ContainsAny(tok, "*?[")
}

// ResolveTarget turns one path token into a Target: ~ expansion, cwd
// join for relative paths, and symlink canonicalization.
func ResolveTarget(tok, cwd string, source model.SourceTier) model.Target {
	p := pathutil.ExpandUser(tok)
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	p = pathutil.Canonicalize(p)
	t := model.Target{Path: p, Source: source}
	if info, err := os.Stat(p); err == nil {
		t.Exists = true
		t.IsDir = info.IsDir()
	}
	return t
}

// parseDirect walks the argument tokens of a Tier-1 deletion verb and
// extracts its path targets. It returns unresolvable for unknown options
// and for glob tokens that do not name an existing literal path; the
// classifier never expands globs.
func parseDirect(verb string, args []string, cwd string) ([]model.Target, string) {
	spec := deleteVerbs[verb]
	var targets []model.Target
	endOfFlags := false
	skipNext := false

	for _, tok := range args {
		if skipNext {
			skipNext = false
			continue
		}
		if !endOfFlags && tok == "--" {
			endOfFlags = true
			continue
		}
		if !endOfFlags && len(tok) > 1 && strings.HasPrefix(tok, "-") {
			name := tok
			if i := strings.Index(tok, "="); i > 0 {
				name = tok[:i]
			}
			lower := strings.ToLower(name)
			switch {
			case strings.HasPrefix(tok, "--"), spec.longFlags != nil && spec.longFlags[lower]:
				if !spec.longFlags[lower] {
					return nil, fmt.Sprintf("%s does not understand %s", verb, tok)
				}
				if spec.valueFlags[lower] && !strings.Contains(tok, "=") {
					skipNext = true
				}
			default:
				for _, c := range tok[1:] {
					if !strings.ContainsRune(spec.shortFlags, c) {
						return nil, fmt.Sprintf("%s does not understand -%c", verb, c)
					}
				}
				if spec.valueFlags[tok] {
					skipNext = true
				}
			}
			continue
		}

		if hasGlobMeta(tok) {
			probe := ResolveTarget(tok, cwd, model.TierDirect)
			if !probe.Exists {
				return nil, fmt.Sprintf("unexpanded glob %q", tok)
			}
			targets = append(targets, probe)
			continue
		}
		targets = append(targets, ResolveTarget(tok, cwd, model.TierDirect))
	}
	return targets, ""
}
