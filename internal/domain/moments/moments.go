// Package moments produces and reconciles candidate clip windows:
// a deterministic positional heuristic plus the selection engine that
// squares AI-proposed candidates with the user's requested count.
package moments

import (
	"fmt"
	"math"
	"sort"

	"github.com/clipforge/clipforge/internal/types"
)

const (
	// overlapThreshold is the start-time proximity (seconds) below
	// which a backfill candidate counts as overlapping an accepted
	// moment. Deliberately a coarse start-distance test, not true
	// interval overlap; kept for compatibility.
	overlapThreshold = 10.0

	BackfillReason   = "Heuristic Backfill"
	ShortVideoReason = "Full video (short)"
)

// Source supplies heuristic candidate moments on demand.
type Source func(numClips int) []types.Moment

// Heuristic returns numClips evenly spaced moments of clipDuration
// seconds across a video of totalDuration seconds. The first slice of
// the spacing grid is skipped so intros don't dominate. A video
// shorter than one clip yields a single whole-video moment.
// Deterministic given its inputs.
func Heuristic(totalDuration float64, numClips int, clipDuration float64) []types.Moment {
	if totalDuration <= clipDuration {
		return []types.Moment{{
			Start:  0,
			End:    totalDuration,
			Score:  types.ScorePtr(1.0),
			Reason: ShortVideoReason,
		}}
	}
	if numClips <= 0 {
		return nil
	}

	available := totalDuration - clipDuration
	if available < 0 {
		available = 0
	}
	step := available / float64(numClips+1)

	out := make([]types.Moment, 0, numClips)
	for i := 0; i < numClips; i++ {
		start := step * float64(i+1)
		if start+clipDuration > totalDuration {
			start = math.Max(0, totalDuration-clipDuration)
		}
		out = append(out, types.Moment{
			Start:  start,
			End:    start + clipDuration,
			Score:  types.ScorePtr(0.8),
			Reason: fmt.Sprintf("Heuristic segment %d (Fallback)", i+1),
		})
	}
	return out
}

// Select reconciles AI candidates against the requested clip count.
// Empty candidates fall back entirely to the heuristic source; excess
// candidates are truncated in source order; a shortfall is backfilled
// from a 2x heuristic batch, skipping candidates whose start lands
// within overlapThreshold seconds of any accepted moment's start.
// The result is sorted ascending by start. Fewer than requested
// moments may be returned when the heuristic runs dry.
func Select(aiCandidates []types.Moment, requested int, heuristic Source) []types.Moment {
	if requested <= 0 {
		return nil
	}

	selected := append([]types.Moment(nil), aiCandidates...)
	if len(selected) == 0 {
		selected = heuristic(requested)
	}

	switch {
	case len(selected) > requested:
		selected = selected[:requested]
	case len(selected) < requested:
		needed := requested - len(selected)
		// Ask for double to improve the odds of non-overlapping picks.
		added := 0
		for _, hm := range heuristic(2 * requested) {
			if added >= needed {
				break
			}
			if overlaps(hm, selected) {
				continue
			}
			hm.Reason = BackfillReason
			selected = append(selected, hm)
			added++
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Start < selected[j].Start
	})
	return selected
}

func overlaps(candidate types.Moment, existing []types.Moment) bool {
	for _, ex := range existing {
		if math.Abs(candidate.Start-ex.Start) < overlapThreshold {
			return true
		}
	}
	return false
}
