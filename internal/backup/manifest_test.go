package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestManifestAppendRead(t *testing.T) {
	m := OpenManifest(filepath.Join(t.TempDir(), "manifest.jsonl"))

	rec := Record{
		ID:             "a1b2c3",
		BackupFilename: "a_a1b2c3.txt",
		OriginalPath:   "/w/a.txt",
		BackedUpAt:     "2026-08-06T10:00:00+00:00",
		Workspace:      "/w",
		SizeBytes:      100,
		Command:        "rm a.txt",
	}
	if err := m.Append(rec); err != nil {
		t.Fatal(err)
	}

	recs, err := m.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0] != rec {
		t.Errorf("round trip mismatch: %+v", recs)
	}
}

func TestManifestMissingFile(t *testing.T) {
	recs, err := OpenManifest(filepath.Join(t.TempDir(), "absent.jsonl")).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if recs != nil {
		t.Errorf("expected no records, got %v", recs)
	}
}

func TestManifestSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.jsonl")
	content := `{"id":"aaaaaa","backup_filename":"x_aaaaaa","original_path":"/w/x","backed_up_at":"t","workspace":"/w","is_dir":false,"size_bytes":1,"command":"rm x"}
this line is garbage
{"id":""}
{"id":"bbbbbb","backup_filename":"y_bbbbbb","original_path":"/w/y","backed_up_at":"t","workspace":"/w","is_dir":false,"size_bytes":2,"command":"rm y"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	recs, err := OpenManifest(path).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 well-formed records, got %d", len(recs))
	}
	if recs[0].ID != "aaaaaa" || recs[1].ID != "bbbbbb" {
		t.Errorf("unexpected ids: %s %s", recs[0].ID, recs[1].ID)
	}
}

func TestManifestConcurrentAppends(t *testing.T) {
	m := OpenManifest(filepath.Join(t.TempDir(), "manifest.jsonl"))

	const writers, perWriter = 4, 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				rec := Record{
					ID:             fmt.Sprintf("%02d%04d", w, i),
					BackupFilename: "f",
					OriginalPath:   "/w/f",
					BackedUpAt:     "t",
					Workspace:      "/w",
					SizeBytes:      1,
					Command:        "rm f",
				}
				if err := m.Append(rec); err != nil {
					t.Errorf("append: %v", err)
				}
			}
		}(w)
	}
	wg.Wait()

	recs, err := m.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != writers*perWriter {
		t.Errorf("expected %d records, got %d, a partial line was emitted", writers*perWriter, len(recs))
	}
}

func TestManifestTruncate(t *testing.T) {
	m := OpenManifest(filepath.Join(t.TempDir(), "manifest.jsonl"))
	if err := m.Append(Record{ID: "cccccc"}); err != nil {
		t.Fatal(err)
	}
	if err := m.Truncate(); err != nil {
		t.Fatal(err)
	}
	recs, err := m.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty manifest, got %d records", len(recs))
	}
}
