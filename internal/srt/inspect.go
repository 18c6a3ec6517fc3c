package srt

import (
	"fmt"
	"time"

	"github.com/asticode/go-astisub"
	"github.com/rivo/uniseg"
)

// Report summarises a subtitle file as an independent reader sees it.
type Report struct {
	Items       int
	First       time.Duration
	Last        time.Duration
	LongestLine int // in grapheme clusters
	LongestItem int // 1-based position of the item holding the longest line
}

// Inspect parses path with astisub, so a file written by Save is checked by a
// second parser rather than the one that produced it.
func Inspect(path string) (Report, error) {
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open subtitles: %w", err)
	}
	var r Report
	r.Items = len(subs.Items)
	for i, item := range subs.Items {
		if i == 0 || item.StartAt < r.First {
			r.First = item.StartAt
		}
		if item.EndAt > r.Last {
			r.Last = item.EndAt
		}
		for _, l := range item.Lines {
			if n := uniseg.GraphemeClusterCount(l.String()); n > r.LongestLine {
				r.LongestLine = n
				r.LongestItem = i + 1
			}
		}
	}
	return r, nil
}

// FormatTimestamp formats a duration since 00:00:00,000 into an SRT timestamp.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond

	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
