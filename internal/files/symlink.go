package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrSymlink matches every error returned for a linked output location.
var ErrSymlink = errors.New("symlink path")

// SymlinkError reports which element of an output path is a link.
type SymlinkError struct {
	Path string
	At   string
}

func (e *SymlinkError) Error() string {
	return fmt.Sprintf("refusing to write to symlink path: %s (link at %s)", e.Path, e.At)
}

func (e *SymlinkError) Is(target error) bool { return target == ErrSymlink }

// RejectSymlinkPath fails when path or the directory that holds it is a
// symlink or reparse point. Links further up the tree are followed, so a
// media library on a linked drive stays writable. A path that does not exist
// yet passes.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	for _, p := range []string{filepath.Dir(abs), abs} {
		linked, err := isLink(p)
		if err != nil {
			return err
		}
		if linked {
			return &SymlinkError{Path: abs, At: p}
		}
	}
	return nil
}

func isLink(p string) (bool, error) {
	info, err := os.Lstat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to access path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return true, nil
	}
	reparse, err := isReparsePoint(p)
	if err != nil {
		return false, fmt.Errorf("failed to check reparse point: %w", err)
	}
	return reparse, nil
}
