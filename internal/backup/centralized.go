package backup

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frier-sam/claude-code-protect/internal/model"
	"github.com/frier-sam/claude-code-protect/internal/pathutil"
)

const (
	// warnBytes is the files/ size beyond which a one-line warning is
	// printed, once per invocation.
	warnBytes = 500 << 20
	// idAttempts bounds collision retries for the 6-hex backup id.
	idAttempts = 8

	timeLayout = "2006-01-02T15:04:05-07:00"
)

// Centralized copies targets into <root>/files/ under collision-safe
// names and records each item in <root>/manifest.jsonl. One value
// serves a whole invocation; the oversize warning fires at most once.
type Centralized struct {
	Root    string
	Command string
	Out     io.Writer

	warned bool
	now    func() time.Time
}

// NewCentralized returns an engine writing diagnostics to out.
func NewCentralized(root, command string, out io.Writer) *Centralized {
	return &Centralized{Root: root, Command: command, Out: out, now: time.Now}
}

// newBackupID returns 6 hex characters from an unbiased RNG.
func newBackupID() string {
	var b [3]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%06x", time.Now().UnixNano()&0xffffff)
	}
	return hex.EncodeToString(b[:])
}

// backupName builds the destination name: stem_<id><ext> for files,
// name_<id> for directories.
func backupName(path string, isDir bool, id string) string {
	name := filepath.Base(path)
	if isDir {
		return name + "_" + id
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + id + ext
}

// Backup copies one target, recording it against zoneRoot. Failures are
// reported on Out and never affect the decision; the deletion proceeds
// either way.
func (c *Centralized) Backup(t model.Target, zoneRoot string) {
	if !t.Exists {
		return
	}
	if reason := SkipReason(t.Path); reason != "" {
		fmt.Fprintf(c.Out, "  skip (%s): %s\n", reason, pathutil.Scrub(t.Path))
		return
	}

	filesDir := filepath.Join(c.Root, "files")
	if err := os.MkdirAll(filesDir, 0o755); err != nil {
		fmt.Fprintf(c.Out, "  backup failed (%s): %s\n", pathutil.Scrub(err.Error()), pathutil.Scrub(t.Path))
		return
	}

	for attempt := 0; attempt < idAttempts; attempt++ {
		id := newBackupID()
		name := backupName(t.Path, t.IsDir, id)
		dest := filepath.Join(filesDir, name)
		if _, err := os.Lstat(dest); err == nil {
			continue
		}

		tmp := filepath.Join(filesDir, ".tmp-"+id)
		var size int64
		var err error
		if t.IsDir {
			size, err = copyTree(t.Path, tmp)
		} else {
			size, err = copyFile(t.Path, tmp)
		}
		if err != nil {
			os.RemoveAll(tmp)
			fmt.Fprintf(c.Out, "  backup failed (%s): %s\n", pathutil.Scrub(err.Error()), pathutil.Scrub(t.Path))
			return
		}
		if err := os.Rename(tmp, dest); err != nil {
			os.RemoveAll(tmp)
			fmt.Fprintf(c.Out, "  backup failed (%s): %s\n", pathutil.Scrub(err.Error()), pathutil.Scrub(t.Path))
			return
		}

		clock := c.now
		if clock == nil {
			clock = time.Now
		}
		rec := Record{
			ID:             id,
			BackupFilename: name,
			OriginalPath:   t.Path,
			BackedUpAt:     clock().Format(timeLayout),
			Workspace:      zoneRoot,
			IsDir:          t.IsDir,
			SizeBytes:      size,
			Command:        c.Command,
		}
		if err := OpenManifest(filepath.Join(c.Root, "manifest.jsonl")).Append(rec); err != nil {
			fmt.Fprintf(c.Out, "  manifest write failed: %s\n", pathutil.Scrub(err.Error()))
		}
		fmt.Fprintf(c.Out, "  backed up: %s -> files/%s\n",
			pathutil.Scrub(filepath.Base(t.Path)), pathutil.Scrub(name))
		c.warnIfOversized()
		return
	}
	fmt.Fprintf(c.Out, "  backup failed (could not allocate a unique name): %s\n", pathutil.Scrub(t.Path))
}

// warnIfOversized prints the 500 MB housekeeping warning at most once
// per invocation. Non-fatal.
func (c *Centralized) warnIfOversized() {
	if c.warned {
		return
	}
	total := treeSize(filepath.Join(c.Root, "files"))
	if total <= warnBytes {
		return
	}
	c.warned = true
	fmt.Fprintf(c.Out, "  warning: backup folder is %dMB (%s); clear old backups to free space\n",
		total>>20, pathutil.Scrub(c.Root))
}
