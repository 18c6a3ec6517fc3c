package srt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOutputPath(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "movie.srt")

	first := GenerateOutputPath(in, "en")
	assert.Equal(t, filepath.Join(dir, "movie.en.srt"), first)
	require.NoError(t, os.WriteFile(first, nil, 0600))

	second := GenerateOutputPath(in, "en")
	assert.Equal(t, filepath.Join(dir, "movie.en.1.srt"), second)

	for n := 1; n <= maxNumberedOutputs; n++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("movie.en.%d.srt", n)), nil, 0600))
	}
	third := GenerateOutputPath(in, "en")
	base := filepath.Base(third)
	assert.True(t, strings.HasPrefix(base, "movie.en."), base)
	assert.True(t, strings.HasSuffix(base, Ext), base)
	assert.Len(t, base, len("movie.en.")+8+len(Ext))
}

func TestGenerateOutputPath_Variants(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		in, lang, want string
	}{
		{in: "subs", lang: "zh-Hans", want: "subs.zh-Hans.srt"},
		{in: "Show.S01E01.SRT", lang: "fr", want: "Show.S01E01.fr.srt"},
		{in: "movie.srt", lang: " ", want: "movie.srt"},
	}
	for _, tt := range tests {
		got := GenerateOutputPath(filepath.Join(dir, tt.in), tt.lang)
		assert.Equal(t, filepath.Join(dir, tt.want), got, tt.in)
	}
}
