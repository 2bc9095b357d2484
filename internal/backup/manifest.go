package backup

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Record is one line of manifest.jsonl, one backed-up item.
type Record struct {
	ID             string `json:"id"`
	BackupFilename string `json:"backup_filename"`
	OriginalPath   string `json:"original_path"`
	BackedUpAt     string `json:"backed_up_at"`
	Workspace      string `json:"workspace"`
	IsDir          bool   `json:"is_dir"`
	SizeBytes      int64  `json:"size_bytes"`
	Command        string `json:"command"`
}

// Manifest is the append-only JSONL log of centralized backups.
// Appends hold an exclusive advisory lock for the duration of a single
// line write, so concurrent invocations interleave at line granularity
// and a partial line is never emitted.
type Manifest struct {
	path string
}

// OpenManifest returns a handle for the manifest at path. The file is
// created lazily on first append.
func OpenManifest(path string) *Manifest {
	return &Manifest{path: path}
}

// Path returns the manifest file location.
func (m *Manifest) Path() string { return m.path }

// Append writes one record as a single newline-terminated JSON line.
func (m *Manifest) Append(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("manifest: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("manifest: create directory: %w", err)
	}
	f, err := os.OpenFile(m.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("manifest: open: %w", err)
	}
	defer f.Close()

	if err := lockExclusive(f); err != nil {
		return fmt.Errorf("manifest: lock: %w", err)
	}
	defer unlock(f)

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("manifest: write: %w", err)
	}
	return nil
}

// ReadAll returns all well-formed records under a shared lock.
// Malformed lines are skipped defensively; under contention a reader
// may race a writer from an older version.
func (m *Manifest) ReadAll() ([]Record, error) {
	f, err := os.Open(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("manifest: open: %w", err)
	}
	defer f.Close()

	if err := lockShared(f); err != nil {
		return nil, fmt.Errorf("manifest: lock: %w", err)
	}
	defer unlock(f)

	var recs []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		var r Record
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil || r.ID == "" {
			continue
		}
		recs = append(recs, r)
	}
	if err := scanner.Err(); err != nil {
		return recs, fmt.Errorf("manifest: scan: %w", err)
	}
	return recs, nil
}

// Truncate empties the manifest under the exclusive lock. Used by the
// clear flow after the files directory is removed.
func (m *Manifest) Truncate() error {
	f, err := os.OpenFile(m.path, os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("manifest: open: %w", err)
	}
	defer f.Close()

	if err := lockExclusive(f); err != nil {
		return fmt.Errorf("manifest: lock: %w", err)
	}
	defer unlock(f)

	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("manifest: truncate: %w", err)
	}
	return nil
}
