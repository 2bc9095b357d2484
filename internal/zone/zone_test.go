package zone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/frier-sam/claude-code-protect/internal/model"
	"github.com/frier-sam/claude-code-protect/internal/pathutil"
)

func testRoots(t *testing.T) (Roots, string, string) {
	t.Helper()
	ws := pathutil.Canonicalize(t.TempDir())
	wl := pathutil.Canonicalize(t.TempDir())
	tmp := pathutil.Canonicalize(t.TempDir())
	return Roots{Workspace: ws, Whitelisted: []string{wl}, Tmp: []string{tmp}}, ws, wl
}

func TestClassifyOrder(t *testing.T) {
	roots, ws, wl := testRoots(t)

	cases := []struct {
		path string
		want model.Zone
	}{
		{filepath.Join(ws, "a.txt"), model.ZoneWorkspace},
		{filepath.Join(wl, "b.txt"), model.ZoneWhitelist},
		{filepath.Join(roots.Tmp[0], "c.txt"), model.ZoneTmp},
		{"/definitely/elsewhere/d.txt", model.ZoneOutside},
	}
	for _, tc := range cases {
		got, _ := roots.Classify(tc.path)
		if got != tc.want {
			t.Errorf("Classify(%s) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestClassifyBoundaryIsInside(t *testing.T) {
	roots, ws, _ := testRoots(t)

	if got, _ := roots.Classify(ws); got != model.ZoneWorkspace {
		t.Errorf("workspace root itself = %s, want workspace", got)
	}
	if got, _ := roots.Classify(roots.Tmp[0]); got != model.ZoneTmp {
		t.Errorf("tmp root itself = %s, want tmp", got)
	}
}

func TestClassifyPrefixIsNotContainment(t *testing.T) {
	roots, ws, _ := testRoots(t)

	// /w-sibling shares a string prefix with /w but is a different tree.
	sibling := ws + "-sibling/file"
	if got, _ := roots.Classify(sibling); got != model.ZoneOutside {
		t.Errorf("Classify(%s) = %s, want outside", sibling, got)
	}
}

func TestClassifyMatchedRoot(t *testing.T) {
	roots, _, wl := testRoots(t)

	_, root := roots.Classify(filepath.Join(wl, "deep", "file"))
	if root != wl {
		t.Errorf("matched root = %s, want %s", root, wl)
	}
}

func TestSymlinkInsideTrustedZonePointingOut(t *testing.T) {
	roots, ws, _ := testRoots(t)
	outside := t.TempDir()
	outsideFile := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(outsideFile, []byte("s"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(ws, "innocent.txt")
	if err := os.Symlink(outsideFile, link); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	// Canonicalization happens before zone labelling; the link must not
	// launder an outside path into the workspace.
	resolved := pathutil.Canonicalize(link)
	if got, _ := roots.Classify(resolved); got != model.ZoneOutside {
		t.Errorf("symlink out of workspace classified as %s, want outside", got)
	}
}

func TestSymlinkOutsidePointingIn(t *testing.T) {
	roots, ws, _ := testRoots(t)
	inside := filepath.Join(ws, "real.txt")
	if err := os.WriteFile(inside, []byte("r"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(t.TempDir(), "alias.txt")
	if err := os.Symlink(inside, link); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	resolved := pathutil.Canonicalize(link)
	if got, _ := roots.Classify(resolved); got != model.ZoneWorkspace {
		t.Errorf("symlink into workspace classified as %s, want workspace", got)
	}
}

func TestDefaultTmpDirs(t *testing.T) {
	dirs := DefaultTmpDirs()
	if len(dirs) == 0 {
		t.Fatal("expected at least one tmp dir")
	}
	seen := map[string]bool{}
	for _, d := range dirs {
		if seen[d] {
			t.Errorf("duplicate tmp dir %s", d)
		}
		seen[d] = true
	}
}
