package translator

import (
	"strconv"
	"strings"

	"github.com/oukeidos/batchsub/internal/srt"
)

// TranslationMap maps a block index to its translated text.
type TranslationMap map[int]string

// BuildPayload serializes a batch as "[index]\n<original>" entries separated
// by a blank line, in batch order.
func BuildPayload(batch []srt.Block) string {
	var b strings.Builder
	for i, blk := range batch {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(blk.Index))
		b.WriteString("]\n")
		b.WriteString(blk.Original)
	}
	return b.String()
}

// ParseReply extracts "[index]\n<body>" entries from a model reply. A body
// holds at least one character and runs until the next line that starts with
// "[<digits>]" or the end of the reply. Bodies are trimmed; a repeated index
// keeps the last body seen. Text that does not fit the shape is ignored.
func ParseReply(reply string) TranslationMap {
	out := TranslationMap{}
	pos := 0
	for pos < len(reply) {
		start := strings.IndexByte(reply[pos:], '[')
		if start < 0 {
			break
		}
		start += pos
		index, bodyStart, ok := scanMarker(reply, start)
		if !ok || bodyStart >= len(reply) {
			pos = start + 1
			continue
		}
		end := bodyEnd(reply, bodyStart+1)
		out[index] = strings.TrimSpace(reply[bodyStart:end])
		pos = end
	}
	return out
}

// scanMarker matches "[<digits>]\n" at i and returns the index and the offset
// right after the newline.
func scanMarker(s string, i int) (int, int, bool) {
	if i >= len(s) || s[i] != '[' {
		return 0, 0, false
	}
	j := i + 1
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == i+1 || j+1 >= len(s) || s[j] != ']' || s[j+1] != '\n' {
		return 0, 0, false
	}
	index, err := strconv.Atoi(s[i+1 : j])
	if err != nil {
		return 0, 0, false
	}
	return index, j + 2, true
}

// bodyEnd returns the first offset at or after from where the reply continues
// with "\n[<digits>]", or len(s).
func bodyEnd(s string, from int) int {
	for k := from; k < len(s); k++ {
		if s[k] == '\n' && startsWithBracketedNumber(s, k+1) {
			return k
		}
	}
	return len(s)
}

func startsWithBracketedNumber(s string, i int) bool {
	if i >= len(s) || s[i] != '[' {
		return false
	}
	j := i + 1
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	return j > i+1 && j < len(s) && s[j] == ']'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Merge returns a copy of batch, in order, with each block's translation
// taken from m by index. Blocks absent from m get an empty translation.
func Merge(batch []srt.Block, m TranslationMap) []srt.Block {
	out := make([]srt.Block, len(batch))
	for i, blk := range batch {
		blk.Translated = m[blk.Index]
		out[i] = blk
	}
	return out
}
