package srt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Ext is the only extension read or written.
const Ext = ".srt"

// maxNumberedOutputs bounds the "<base>.<lang>.<n>.srt" probe before a
// random suffix is used.
const maxNumberedOutputs = 9

// GenerateOutputPath names the translation "<base>.<lang>.srt" next to the
// input, which media players pick up as a subtitle track for the same video.
// When that file exists the name is numbered, then given a random suffix.
func GenerateOutputPath(inputPath, targetLang string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	lang := strings.TrimSpace(targetLang)
	if lang != "" {
		base += "." + lang
	}

	candidate := base + Ext
	if !exists(candidate) {
		return candidate
	}
	for n := 1; n <= maxNumberedOutputs; n++ {
		candidate = fmt.Sprintf("%s.%d%s", base, n, Ext)
		if !exists(candidate) {
			return candidate
		}
	}
	return fmt.Sprintf("%s.%s%s", base, uuid.NewString()[:8], Ext)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
