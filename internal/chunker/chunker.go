package chunker

import (
	"errors"
	"fmt"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/srt"
)

// Chunk is one batch of consecutive blocks sent in a single request.
type Chunk struct {
	Index  int
	Blocks []srt.Block
}

// SplitIntoChunks partitions blocks into consecutive runs of maxSize; the last
// chunk may be shorter. Chunks share the backing array of blocks.
func SplitIntoChunks(blocks []srt.Block, maxSize int) ([]Chunk, error) {
	if maxSize < 1 {
		msg := fmt.Sprintf("Batch size must be at least 1 (got %d).", maxSize)
		return nil, apperrors.New(apperrors.KindConfig, msg, errors.New(msg))
	}

	chunks := make([]Chunk, 0, (len(blocks)+maxSize-1)/maxSize)
	n := len(blocks)
	for i := 0; i < n; i += maxSize {
		end := i + maxSize
		if end > n {
			end = n
		}
		chunks = append(chunks, Chunk{
			Index:  len(chunks),
			Blocks: blocks[i:end:end],
		})
	}
	return chunks, nil
}
