package backup

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// gitignoreEntry is the single line per-folder mode maintains in each
// zone root's .gitignore.
const gitignoreEntry = ".claude-backups/"

// EnsureGitignore guarantees the backup directory is ignored in root's
// .gitignore, creating the file if needed. The read-modify-write runs
// under a non-blocking exclusive lock; if another invocation holds it,
// the update is skipped; it is cosmetic and the next invocation will
// retry.
func EnsureGitignore(root string) {
	path := filepath.Join(root, ".gitignore")
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return
	}
	defer f.Close()

	if err := lockExclusiveNB(f); err != nil {
		return
	}
	defer unlock(f)

	data, err := io.ReadAll(f)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == gitignoreEntry || trimmed == strings.TrimSuffix(gitignoreEntry, "/") {
			return
		}
	}

	content := string(data)
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += gitignoreEntry + "\n"

	if err := f.Truncate(0); err != nil {
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return
	}
	_, _ = f.WriteString(content)
}
