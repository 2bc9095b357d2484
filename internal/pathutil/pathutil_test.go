package pathutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCanonicalizeExisting(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "alias")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	if got, want := Canonicalize(link), Canonicalize(real); got != want {
		t.Errorf("Canonicalize(%s) = %s, want %s", link, got, want)
	}
}

func TestCanonicalizeMissingTail(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "alias")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	// ghost.txt does not exist; its parent resolves through the link.
	got := Canonicalize(filepath.Join(link, "ghost.txt"))
	want := filepath.Join(Canonicalize(real), "ghost.txt")
	if got != want {
		t.Errorf("Canonicalize = %s, want %s", got, want)
	}
}

func TestIsInside(t *testing.T) {
	cases := []struct {
		path, root string
		want       bool
	}{
		{"/w", "/w", true},
		{"/w/a/b", "/w", true},
		{"/w-other", "/w", false},
		{"/x", "/w", false},
		{"/w", "", false},
	}
	for _, tc := range cases {
		if got := IsInside(tc.path, tc.root); got != tc.want {
			t.Errorf("IsInside(%s, %s) = %v, want %v", tc.path, tc.root, got, tc.want)
		}
	}
}

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandUser("~/x"); got != filepath.Join(home, "x") {
		t.Errorf("ExpandUser(~/x) = %s", got)
	}
	if got := ExpandUser("~"); got != home {
		t.Errorf("ExpandUser(~) = %s", got)
	}
	if got := ExpandUser("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandUser should leave absolute paths alone, got %s", got)
	}
}

func TestScrub(t *testing.T) {
	in := "name\x1b[31mred\x1b[0m\twith\ncontrol\x00chars"
	out := Scrub(in)
	if strings.ContainsAny(out, "\x1b\t\n\x00") {
		t.Errorf("Scrub left control characters: %q", out)
	}
	if !strings.Contains(out, "red") {
		t.Errorf("Scrub dropped printable content: %q", out)
	}
}
