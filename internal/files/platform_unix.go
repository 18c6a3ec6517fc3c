//go:build !windows

package files

import "os"

// rename(2) replaces the destination atomically on POSIX filesystems.
func renameAtomic(from, to string) error { return os.Rename(from, to) }

func isReparsePoint(string) (bool, error) { return false, nil }
