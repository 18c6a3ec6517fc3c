package srt

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/logger"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Block is a single subtitle entry.
type Block struct {
	Index      int
	Timestamp  string // "HH:MM:SS,mmm --> HH:MM:SS,mmm", kept verbatim
	Original   string
	Translated string
}

// HasTranslation reports whether the block carries a non-empty translation.
func (b Block) HasTranslation() bool {
	return b.Translated != ""
}

var blockPattern = regexp.MustCompile(`(?s)(\d+)\n(\d{2}:\d{2}:\d{2},\d{3} --> \d{2}:\d{2}:\d{2},\d{3})\n(.+?)\n\n`)

// Parse extracts every block of the form "<n>\n<range>\n<body>\n\n" from raw,
// in the order found. Text that does not match is ignored; no matches yields
// an empty slice.
func Parse(raw string) []Block {
	matches := blockPattern.FindAllStringSubmatch(raw, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		index, err := strconv.Atoi(m[1])
		if err != nil {
			logger.Debug("Skipping block with out-of-range index", "index", m[1])
			continue
		}
		blocks = append(blocks, Block{
			Index:     index,
			Timestamp: m[2],
			Original:  strings.TrimSpace(m[3]),
		})
	}
	return blocks
}

// Load reads and parses a subtitle file. Read and decode failures are
// reported as parse errors.
func Load(path string) ([]Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.New(apperrors.KindParse, fmt.Sprintf("failed to read subtitle file %s", path), err)
	}
	text, err := decode(data)
	if err != nil {
		return nil, apperrors.New(apperrors.KindParse, fmt.Sprintf("failed to decode subtitle file %s", path), err)
	}
	return Parse(terminate(text)), nil
}

// decode honours a UTF-8 or UTF-16 byte order mark and folds CRLF and lone CR
// line endings into LF.
func decode(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(string(out), "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n"), nil
}

// terminate closes a final block that is missing its trailing blank line.
func terminate(text string) string {
	trimmed := strings.TrimRight(text, "\n")
	if trimmed == "" {
		return text
	}
	return trimmed + "\n\n"
}
