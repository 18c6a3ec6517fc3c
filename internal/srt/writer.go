package srt

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/files"
)

// Format renders every block that has a translation as
// "<index>\n<timestamp>\n<translated>\n\n". Untranslated blocks are skipped.
func Format(blocks []Block) []byte {
	var buf bytes.Buffer
	for _, b := range blocks {
		if !b.HasTranslation() {
			continue
		}
		buf.WriteString(strconv.Itoa(b.Index))
		buf.WriteByte('\n')
		buf.WriteString(b.Timestamp)
		buf.WriteByte('\n')
		buf.WriteString(b.Translated)
		buf.WriteString("\n\n")
	}
	return buf.Bytes()
}

// Save overwrites path with Format(blocks).
func Save(path string, blocks []Block) error {
	if err := files.AtomicWrite(path, Format(blocks), 0644); err != nil {
		return apperrors.New(apperrors.KindPersist, fmt.Sprintf("failed to write output file %s", path), err)
	}
	return nil
}

// Translated counts blocks that carry a translation.
func Translated(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if b.HasTranslation() {
			n++
		}
	}
	return n
}
