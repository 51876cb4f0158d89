package ports

import (
	"context"

	"github.com/clipforge/clipforge/internal/types"
)

// VideoTool is the external media engine contract: given start/end
// and a style, produce files.
type VideoTool interface {
	ExtractAudio(ctx context.Context, inVideo, outAudio string) error
	CutVertical(ctx context.Context, inVideo string, start, end float64, outVideo, subtitlePath, forceStyle string) error
	TrimSource(ctx context.Context, inVideo string, start, end float64, outVideo string) error
	Watermark(ctx context.Context, inVideo, outVideo, text string) error
	ProbeDuration(ctx context.Context, inVideo string) (float64, error)
}

// ASR turns audio into timed word/segment tokens.
type ASR interface {
	Transcribe(ctx context.Context, audioPath, language string) (types.Transcript, error)
}

// MomentAnalyzer scores a transcript for viral moments. Implementations
// may return malformed or empty results; callers treat any error as
// "no candidates".
type MomentAnalyzer interface {
	AnalyzeTranscript(ctx context.Context, text string, segments []types.Segment, clipDuration int) ([]types.Moment, error)
}

// Downloader resolves a URL into a local file path.
type Downloader interface {
	Download(ctx context.Context, url string) (path string, err error)
}

// Publisher pushes a finished clip to a social platform.
type Publisher interface {
	Publish(ctx context.Context, videoPath, caption string) error
}
