package chunker

import (
	"fmt"
	"testing"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/srt"
)

func makeBlocks(n int) []srt.Block {
	blocks := make([]srt.Block, n)
	for i := range blocks {
		blocks[i] = srt.Block{Index: i + 1}
	}
	return blocks
}

func TestSplitIntoChunks(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		size      int
		wantSizes []int
	}{
		{"exact multiple", 10, 5, []int{5, 5}},
		{"short tail", 12, 5, []int{5, 5, 2}},
		{"single short batch", 2, 5, []int{2}},
		{"size one", 3, 1, []int{1, 1, 1}},
		{"empty input", 0, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := makeBlocks(tt.count)
			chunks, err := SplitIntoChunks(blocks, tt.size)
			if err != nil {
				t.Fatalf("SplitIntoChunks() error = %v", err)
			}
			if len(chunks) != len(tt.wantSizes) {
				t.Fatalf("got %d chunks, want %d", len(chunks), len(tt.wantSizes))
			}

			var rebuilt []srt.Block
			for i, c := range chunks {
				if c.Index != i {
					t.Errorf("chunk %d has Index %d", i, c.Index)
				}
				if len(c.Blocks) != tt.wantSizes[i] {
					t.Errorf("chunk %d: got %d blocks, want %d", i, len(c.Blocks), tt.wantSizes[i])
				}
				rebuilt = append(rebuilt, c.Blocks...)
			}

			if len(rebuilt) != len(blocks) {
				t.Fatalf("rebuilt %d blocks, want %d", len(rebuilt), len(blocks))
			}
			for i := range blocks {
				if rebuilt[i].Index != blocks[i].Index {
					t.Fatalf("order changed at %d: got %d, want %d", i, rebuilt[i].Index, blocks[i].Index)
				}
			}
		})
	}
}

func TestSplitIntoChunks_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		_, err := SplitIntoChunks(makeBlocks(4), size)
		if err == nil {
			t.Fatalf("expected error for size %d", size)
		}
		if !apperrors.Is(err, apperrors.KindConfig) {
			t.Fatalf("expected config error, got %v", err)
		}
		want := fmt.Sprintf("Batch size must be at least 1 (got %d).", size)
		if err.Error() != want {
			t.Fatalf("Error() = %q, want %q", err.Error(), want)
		}
	}
}

func TestSplitIntoChunks_AppendDoesNotLeak(t *testing.T) {
	blocks := makeBlocks(4)
	chunks, err := SplitIntoChunks(blocks, 2)
	if err != nil {
		t.Fatal(err)
	}
	_ = append(chunks[0].Blocks, srt.Block{Index: 99})
	if blocks[2].Index != 3 {
		t.Fatalf("append on a chunk overwrote the next chunk: %+v", blocks[2])
	}
}
