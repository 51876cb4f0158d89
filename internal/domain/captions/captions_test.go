package captions

import (
	"strings"
	"testing"

	"github.com/clipforge/clipforge/internal/types"
)

func TestBuildCues_OffsetsAndClamps(t *testing.T) {
	segs := []types.Segment{
		{Start: 8, End: 12, Text: "before the clip starts", Words: []types.Word{
			{Word: "before", Start: 8.0, End: 8.5},
			{Word: "straddle", Start: 9.5, End: 10.5},
			{Word: "inside", Start: 11.0, End: 11.8},
		}},
	}

	cues := BuildCues(segs, 10)
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues (one dropped), got %d", len(cues))
	}
	if cues[0].Text != "straddle" || cues[0].Start != 0 {
		t.Fatalf("expected straddling word clamped to 0, got %+v", cues[0])
	}
	if cues[1].Start <= 0 || cues[1].Start > cues[1].End {
		t.Fatalf("unexpected inside cue: %+v", cues[1])
	}
}

func TestBuildCues_Invariants(t *testing.T) {
	segs := []types.Segment{
		{Start: 0, End: 6, Text: "a b c", Words: []types.Word{
			{Word: "a", Start: 0.5, End: 1.0},
			{Word: "b", Start: 1.0, End: 2.2},
			{Word: "c", Start: 2.2, End: 5.9},
		}},
	}
	for _, offset := range []float64{0, 1.0, 2.2, 100} {
		cues := BuildCues(segs, offset)
		if len(cues) > 3 {
			t.Fatalf("offset %.1f: more cues than words: %d", offset, len(cues))
		}
		for _, c := range cues {
			if c.Start < 0 {
				t.Fatalf("offset %.1f: negative cue start %+v", offset, c)
			}
			if c.Start > c.End {
				t.Fatalf("offset %.1f: start after end %+v", offset, c)
			}
		}
	}
}

func TestBuildCues_SegmentWithoutWords(t *testing.T) {
	segs := []types.Segment{{Start: 30, End: 35, Text: "whole segment"}}
	cues := BuildCues(segs, 30)
	if len(cues) != 1 {
		t.Fatalf("expected single whole-segment cue, got %d", len(cues))
	}
	if cues[0].Text != "whole segment" || cues[0].Start != 0 || cues[0].End != 5 {
		t.Fatalf("unexpected cue: %+v", cues[0])
	}
}

func TestBuildCues_Empty(t *testing.T) {
	if cues := BuildCues(nil, 10); len(cues) != 0 {
		t.Fatalf("expected no cues, got %d", len(cues))
	}
}

func TestFormatSRT(t *testing.T) {
	cues := []types.Cue{
		{Start: 0, End: 0.5, Text: "hello"},
		{Start: 61.234, End: 62, Text: "world"},
	}
	got := FormatSRT(cues)
	want := "1\n00:00:00,000 --> 00:00:00,500\nhello\n\n" +
		"2\n00:01:01,234 --> 00:01:02,000\nworld\n\n"
	if got != want {
		t.Fatalf("unexpected SRT output:\n%s", got)
	}
	if !strings.HasSuffix(got, "\n\n") {
		t.Fatalf("expected trailing blank line separator")
	}
}

func TestTimestamp_NegativeClampsToZero(t *testing.T) {
	if got := Timestamp(-3.2); got != "00:00:00,000" {
		t.Fatalf("unexpected timestamp: %s", got)
	}
}
