package backup

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// copyFile copies src to dst preserving mode and mtime. Returns bytes
// copied.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return 0, err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return 0, err
	}
	// OpenFile's permission is filtered by the umask; set it explicitly.
	_ = os.Chmod(dst, info.Mode().Perm())
	_ = os.Chtimes(dst, time.Now(), info.ModTime())
	return n, nil
}

// copyTree recursively copies the directory src into dst, skipping
// descendants whose name is in the skip set. Symlinks are copied as
// links, never followed. Returns total bytes copied.
func copyTree(src, dst string) (int64, error) {
	var total int64
	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != src && d.IsDir() && skipComponent(d.Name()) {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(p)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			n, err := copyFile(p, target)
			total += n
			return err
		default:
			// Sockets, fifos, devices: nothing to preserve.
			return nil
		}
	})
	return total, err
}

// treeSize sums regular-file sizes under path, honoring the skip set.
func treeSize(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if p != path && d.IsDir() && skipComponent(d.Name()) {
			return filepath.SkipDir
		}
		if d.Type().IsRegular() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}
