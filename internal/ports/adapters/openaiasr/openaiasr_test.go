package openaiasr

import (
	"testing"

	"github.com/clipforge/clipforge/internal/types"
)

func TestAttachWords_SplitsByTime(t *testing.T) {
	segments := []types.Segment{
		{Start: 0, End: 2, Text: "hello world"},
		{Start: 2, End: 5, Text: "again"},
	}
	words := []types.Word{
		{Word: "hello", Start: 0.1, End: 0.8},
		{Word: "world", Start: 0.9, End: 1.9},
		{Word: "again", Start: 2.1, End: 2.9},
	}

	got := AttachWords(segments, words)
	if len(got[0].Words) != 2 {
		t.Fatalf("expected 2 words on first segment, got %d", len(got[0].Words))
	}
	if len(got[1].Words) != 1 || got[1].Words[0].Word != "again" {
		t.Fatalf("unexpected second segment words: %+v", got[1].Words)
	}
}

func TestAttachWords_TrailingWordsStickToLastSegment(t *testing.T) {
	segments := []types.Segment{{Start: 0, End: 1, Text: "tail"}}
	words := []types.Word{
		{Word: "tail", Start: 0.2, End: 0.8},
		{Word: "overrun", Start: 1.5, End: 2.0},
	}
	got := AttachWords(segments, words)
	if len(got[0].Words) != 2 {
		t.Fatalf("expected trailing word attached, got %+v", got[0].Words)
	}
}

func TestAttachWords_EmptyInputs(t *testing.T) {
	if got := AttachWords(nil, []types.Word{{Word: "x"}}); got != nil {
		t.Fatalf("expected nil segments to pass through")
	}
	segs := []types.Segment{{Start: 0, End: 1, Text: "x"}}
	if got := AttachWords(segs, nil); len(got[0].Words) != 0 {
		t.Fatalf("expected no words attached")
	}
}
