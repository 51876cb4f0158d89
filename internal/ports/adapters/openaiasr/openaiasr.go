// Package openaiasr transcribes audio through the hosted Whisper API
// and normalizes the verbose_json response into the transcript types
// every downstream component consumes.
package openaiasr

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/clipforge/clipforge/internal/types"
)

type Adapter struct {
	cli   *openai.Client
	model string
}

func New(apiKey, baseURL, model string) *Adapter {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = "whisper-1"
	}
	return &Adapter{cli: openai.NewClientWithConfig(cfg), model: model}
}

func (a *Adapter) Transcribe(ctx context.Context, audioPath, language string) (types.Transcript, error) {
	req := openai.AudioRequest{
		Model:    a.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []openai.TranscriptionTimestampGranularity{
			openai.TranscriptionTimestampGranularitySegment,
			openai.TranscriptionTimestampGranularityWord,
		},
	}
	if language != "" {
		req.Language = language
	}

	resp, err := a.cli.CreateTranscription(ctx, req)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("openai transcription: %w", err)
	}
	if strings.TrimSpace(resp.Text) == "" {
		return types.Transcript{}, fmt.Errorf("openai transcription returned empty text")
	}

	segments := make([]types.Segment, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		segments = append(segments, types.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	words := make([]types.Word, 0, len(resp.Words))
	for _, w := range resp.Words {
		words = append(words, types.Word{
			Word:  strings.TrimSpace(w.Word),
			Start: w.Start,
			End:   w.End,
		})
	}

	return types.Transcript{
		Text:     strings.TrimSpace(resp.Text),
		Segments: AttachWords(segments, words),
	}, nil
}

// AttachWords distributes the API's flat word list onto segments.
// Words are consumed in order; a word belongs to the first segment
// whose end lies beyond the word's start. Trailing words past the
// last segment's end attach to the last segment so nothing is lost.
func AttachWords(segments []types.Segment, words []types.Word) []types.Segment {
	if len(segments) == 0 || len(words) == 0 {
		return segments
	}
	wi := 0
	for si := range segments {
		last := si == len(segments)-1
		for wi < len(words) && (last || words[wi].Start < segments[si].End) {
			segments[si].Words = append(segments[si].Words, words[wi])
			wi++
		}
	}
	return segments
}
