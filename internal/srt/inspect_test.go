package srt

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	content := "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n" +
		"2\n00:00:03,000 --> 00:00:04,500\n안녕하세요 여러분\n\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if r.Items != 2 {
		t.Fatalf("Items = %d, want 2", r.Items)
	}
	if r.First != time.Second {
		t.Errorf("First = %v, want 1s", r.First)
	}
	if r.Last != 4500*time.Millisecond {
		t.Errorf("Last = %v, want 4.5s", r.Last)
	}
	if r.LongestLine != 9 || r.LongestItem != 2 {
		t.Errorf("LongestLine = %d at %d, want 9 at 2", r.LongestLine, r.LongestItem)
	}
}

func TestInspect_MissingFile(t *testing.T) {
	if _, err := Inspect(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{-time.Second, "00:00:00,000"},
		{time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond, "01:02:03,004"},
		{25 * time.Hour, "25:00:00,000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.in); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
