//go:build unix

package backup

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockExclusive acquires an exclusive advisory lock on the file.
func lockExclusive(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX)
}

// lockExclusiveNB tries an exclusive lock without blocking.
func lockExclusiveNB(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

// lockShared acquires a shared advisory lock on the file.
func lockShared(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_SH)
}

// unlock releases the advisory lock.
func unlock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}
