package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/frier-sam/claude-code-protect/internal/model"
	"github.com/frier-sam/claude-code-protect/internal/pathutil"
)

// DefaultSizeLimit is the combined per-invocation backup cap in
// per-folder mode.
const DefaultSizeLimit int64 = 10 << 20

// PerFolder backs targets up beneath each zone root's own
// .claude-backups directory, mirroring paths relative to that root.
// All backups from one invocation share a <timestamp>_<pid> directory,
// so concurrent invocations never collide.
type PerFolder struct {
	// SizeLimit caps the combined size of all items in the invocation;
	// zero means DefaultSizeLimit.
	SizeLimit int64
	Out       io.Writer

	stamp string
}

// NewPerFolder returns an engine writing diagnostics to out.
func NewPerFolder(out io.Writer) *PerFolder {
	return &PerFolder{
		Out:   out,
		stamp: time.Now().Format("2006-01-02_15-04-05") + "_" + strconv.Itoa(os.Getpid()),
	}
}

// Run backs up all zone-root groups for this invocation. When the
// combined size exceeds the cap, every backup is skipped with a single
// report and the deletion still proceeds.
func (p *PerFolder) Run(groups map[string][]model.Target) {
	limit := p.SizeLimit
	if limit == 0 {
		limit = DefaultSizeLimit
	}

	var total int64
	for _, targets := range groups {
		for _, t := range targets {
			if !t.Exists || SkipReason(t.Path) != "" {
				continue
			}
			if t.IsDir {
				total += treeSize(t.Path)
			} else if info, err := os.Stat(t.Path); err == nil {
				total += info.Size()
			}
		}
	}
	if total > limit {
		fmt.Fprintf(p.Out, "  skipped: size exceeds %dMB (total %dMB)\n", limit>>20, total>>20)
		return
	}

	for root, targets := range groups {
		p.backupGroup(root, targets)
	}
}

func (p *PerFolder) backupGroup(root string, targets []model.Target) {
	dir := filepath.Join(root, ".claude-backups", p.stamp)
	wroteAny := false

	for _, t := range targets {
		if !t.Exists {
			continue
		}
		if reason := SkipReason(t.Path); reason != "" {
			fmt.Fprintf(p.Out, "  skip (%s): %s\n", reason, pathutil.Scrub(t.Path))
			continue
		}

		rel, err := filepath.Rel(root, t.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			rel = filepath.Base(t.Path)
		}
		dest := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			fmt.Fprintf(p.Out, "  backup failed (%s): %s\n", pathutil.Scrub(err.Error()), pathutil.Scrub(t.Path))
			continue
		}
		if !wroteAny {
			EnsureGitignore(root)
			wroteAny = true
		}

		if t.IsDir {
			_, err = copyTree(t.Path, dest)
		} else {
			_, err = copyFile(t.Path, dest)
		}
		if err != nil {
			fmt.Fprintf(p.Out, "  backup failed (%s): %s\n", pathutil.Scrub(err.Error()), pathutil.Scrub(t.Path))
			continue
		}
		fmt.Fprintf(p.Out, "  backed up: %s -> %s\n",
			pathutil.Scrub(rel), pathutil.Scrub(filepath.Join(".claude-backups", p.stamp, rel)))
	}
}
