package srt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_SkipsUntranslated(t *testing.T) {
	blocks := []Block{
		{Index: 1, Timestamp: "00:00:01,000 --> 00:00:02,000", Original: "a", Translated: "A"},
		{Index: 2, Timestamp: "00:00:02,000 --> 00:00:03,000", Original: "b"},
		{Index: 3, Timestamp: "00:00:03,000 --> 00:00:04,000", Original: "c", Translated: "C\nc"},
	}

	want := "1\n00:00:01,000 --> 00:00:02,000\nA\n\n" +
		"3\n00:00:03,000 --> 00:00:04,000\nC\nc\n\n"
	assert.Equal(t, want, string(Format(blocks)))
	assert.Equal(t, 2, Translated(blocks))
}

func TestSave_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	blocks := []Block{
		{Index: 1, Timestamp: "00:00:01,000 --> 00:00:02,000", Translated: "Hello"},
		{Index: 2, Timestamp: "00:00:03,000 --> 00:00:04,000", Translated: "Goodbye"},
	}

	require.NoError(t, Save(path, blocks))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, Save(path, blocks))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSave_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the new one\n"), 0600))

	require.NoError(t, Save(path, []Block{{Index: 4, Timestamp: "00:00:01,000 --> 00:00:02,000", Translated: "x"}}))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "4\n00:00:01,000 --> 00:00:02,000\nx\n\n", string(got))
}

func TestSave_EmptyStateWritesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	require.NoError(t, Save(path, []Block{{Index: 1, Timestamp: "00:00:01,000 --> 00:00:02,000", Original: "x"}}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestSave_MissingDirectory(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "nope", "out.srt"), nil)
	require.Error(t, err)
}
