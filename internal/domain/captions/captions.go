// Package captions converts word-level transcript timestamps into
// clip-relative subtitle cues and serializes them as SRT.
package captions

import (
	"fmt"
	"strings"

	"github.com/clipforge/clipforge/internal/types"
)

// BuildCues flattens all words across segments into one ordered cue
// sequence, shifted by startOffset (the clip's start in the source
// timeline). One word per cue is deliberate: fast-paced single-word
// captions for vertical short-form clips.
//
// Words entirely before the clip (relative end < 0) are dropped; a
// word straddling the clip boundary gets its start clamped to 0.
// Segments without word timing contribute a single whole-segment cue.
func BuildCues(segments []types.Segment, startOffset float64) []types.Cue {
	var out []types.Cue
	for _, w := range flattenWords(segments) {
		start := w.Start - startOffset
		end := w.End - startOffset
		if end < 0 {
			continue
		}
		if start < 0 {
			start = 0
		}
		text := strings.TrimSpace(w.Word)
		if text == "" {
			continue
		}
		out = append(out, types.Cue{Start: start, End: end, Text: text})
	}
	return out
}

func flattenWords(segments []types.Segment) []types.Word {
	var out []types.Word
	for _, s := range segments {
		if len(s.Words) > 0 {
			out = append(out, s.Words...)
			continue
		}
		// No word-level timing: the whole segment becomes one cue.
		out = append(out, types.Word{Word: s.Text, Start: s.Start, End: s.End})
	}
	return out
}

// FormatSRT renders cues as a numbered-cue subtitle file:
// sequence number, "HH:MM:SS,mmm --> HH:MM:SS,mmm", text, blank line.
func FormatSRT(cues []types.Cue) string {
	var b strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, Timestamp(c.Start), Timestamp(c.End), c.Text)
	}
	return b.String()
}

// Timestamp formats seconds as the SRT "HH:MM:SS,mmm" form. Negative
// inputs clamp to zero.
func Timestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	millis := int((seconds - float64(whole)) * 1000)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
