// Package pipeline sequences ingestion, transcription, moment
// selection, and per-clip rendering. It is the one place that decides
// which failures are fatal to a request and which merely degrade it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipforge/clipforge/internal/domain/captions"
	"github.com/clipforge/clipforge/internal/domain/moments"
	"github.com/clipforge/clipforge/internal/domain/styles"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/transcripts"
	"github.com/clipforge/clipforge/internal/types"
)

// NoTranscript is the sentinel returned in place of a transcript when
// transcription failed and the run continued degraded.
const NoTranscript = "No Transcript Available"

// Fatal-to-request errors. The HTTP layer maps these to user-facing
// rejections; everything else degrades inside Process.
var (
	ErrSourceNotFound = errors.New("video file not found")
	ErrDownloadFailed = errors.New("download failed")
)

type Deps struct {
	Video      ports.VideoTool
	ASR        ports.ASR
	Analyzer   ports.MomentAnalyzer
	Downloader ports.Downloader
	Store      *transcripts.Store
	Logger     zerolog.Logger
}

type Pipeline struct {
	d         Deps
	uploadDir string
	outputDir string
}

func New(uploadDir, outputDir string, d Deps) *Pipeline {
	return &Pipeline{d: d, uploadDir: uploadDir, outputDir: outputDir}
}

type Request struct {
	FileID       string
	VideoPath    string
	VideoURL     string
	NumShorts    int
	CaptionStyle string
	ClipDuration int
	Language     string

	// Optional source window; when set, the source is trimmed before
	// any other stage and a trim failure is fatal (the user asked for
	// it explicitly).
	ProcessingStart *float64
	ProcessingEnd   *float64

	Overrides     types.StyleOverrides
	WatermarkText string
}

type Result struct {
	Status       string             `json:"status"`
	OriginalFile string             `json:"original_file"`
	Transcript   any                `json:"transcript"`
	Clips        []types.ClipResult `json:"clips"`
}

// Process runs the full pipeline. Only source resolution, trimming,
// and audio extraction fail the request; transcription and analysis
// degrade, and each clip render fails independently.
func (p *Pipeline) Process(ctx context.Context, req Request) (Result, error) {
	log := p.d.Logger

	if req.VideoURL != "" {
		path, err := p.d.Downloader.Download(ctx, req.VideoURL)
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
		}
		req.VideoPath = path
		req.FileID = SourceIdentity(path)
		log.Info().Str("url", req.VideoURL).Str("path", path).Msg("source downloaded")
	}
	if req.VideoPath == "" {
		return Result{}, ErrSourceNotFound
	}
	if _, err := os.Stat(req.VideoPath); err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrSourceNotFound, req.VideoPath)
	}
	if req.FileID == "" {
		req.FileID = SourceIdentity(req.VideoPath)
	}
	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return Result{}, err
	}

	if req.ProcessingStart != nil || req.ProcessingEnd != nil {
		trimmed := filepath.Join(p.outputDir, req.FileID+"_trimmed.mp4")
		start, end := 0.0, 0.0
		if req.ProcessingStart != nil {
			start = *req.ProcessingStart
		}
		if req.ProcessingEnd != nil {
			end = *req.ProcessingEnd
		}
		if err := p.d.Video.TrimSource(ctx, req.VideoPath, start, end, trimmed); err != nil {
			return Result{}, fmt.Errorf("failed to trim video: %w", err)
		}
		req.VideoPath = trimmed
		log.Info().Float64("start", start).Float64("end", end).Msg("source trimmed")
	}

	audioPath := filepath.Join(p.outputDir, req.FileID+".mp3")
	if err := p.d.Video.ExtractAudio(ctx, req.VideoPath, audioPath); err != nil {
		return Result{}, fmt.Errorf("audio extraction failed: %w", err)
	}
	log.Info().Str("audio", audioPath).Msg("audio extracted")

	// Transcription failure degrades the run: heuristic-only moments,
	// no captions.
	var transcript *types.Transcript
	tr, err := p.d.ASR.Transcribe(ctx, audioPath, req.Language)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("transcription failed, continuing without captions")
	case strings.TrimSpace(tr.Text) == "" && len(tr.Segments) == 0:
		log.Warn().Msg("transcription returned empty result, continuing without captions")
	default:
		transcript = &tr
		log.Info().Int("segments", len(tr.Segments)).Msg("transcription complete")
	}

	var segments []types.Segment
	var aiMoments []types.Moment
	if transcript != nil {
		segments = transcript.Segments

		if err := p.d.Store.Save(req.FileID, segments); err != nil {
			log.Warn().Err(err).Msg("failed to save transcript cache")
		}

		// Analysis errors mean "no candidates", never a request failure.
		aiMoments, err = p.d.Analyzer.AnalyzeTranscript(ctx, transcript.Text, segments, req.ClipDuration)
		if err != nil {
			log.Warn().Err(err).Msg("analysis failed, falling back to heuristic")
			aiMoments = nil
		}
		log.Info().Int("candidates", len(aiMoments)).Msg("analysis complete")
	}

	heuristic := p.heuristicSource(ctx, req.VideoPath, float64(req.ClipDuration))
	selected := moments.Select(aiMoments, req.NumShorts, heuristic)
	log.Info().Int("selected", len(selected)).Msg("moments selected")

	result := Result{
		Status:       "completed",
		OriginalFile: req.FileID,
		Transcript:   NoTranscript,
		Clips:        []types.ClipResult{},
	}
	if transcript != nil {
		result.Transcript = transcript
	}

	for i, m := range selected {
		clip, err := p.renderClip(ctx, req, segments, m, i)
		if err != nil {
			// Per-clip isolation: one bad render never aborts the batch.
			log.Error().Err(err).Int("clip", i+1).Msg("clip render failed, skipping")
			continue
		}
		result.Clips = append(result.Clips, clip)
	}
	return result, nil
}

func (p *Pipeline) renderClip(ctx context.Context, req Request, segments []types.Segment, m types.Moment, i int) (types.ClipResult, error) {
	base := fmt.Sprintf("%s_short_%d", req.FileID, i+1)
	outputPath := filepath.Join(p.outputDir, base+".mp4")

	subtitlePath := ""
	if len(segments) > 0 {
		srtPath := filepath.Join(p.outputDir, base+".srt")
		cues := captions.BuildCues(segments, m.Start)
		if err := os.WriteFile(srtPath, []byte(captions.FormatSRT(cues)), 0o644); err != nil {
			// Captions are an enhancement; render the clip bare.
			p.d.Logger.Warn().Err(err).Int("clip", i+1).Msg("caption write failed")
		} else {
			subtitlePath = srtPath
		}
	}

	style := styles.Resolve(req.CaptionStyle, req.Overrides)
	if err := p.d.Video.CutVertical(ctx, req.VideoPath, m.Start, m.End, outputPath, subtitlePath, style.String()); err != nil {
		return types.ClipResult{}, err
	}

	finalPath := outputPath
	if req.WatermarkText != "" {
		wmPath := filepath.Join(p.outputDir, base+"_wm.mp4")
		if err := p.d.Video.Watermark(ctx, outputPath, wmPath, req.WatermarkText); err != nil {
			p.d.Logger.Warn().Err(err).Int("clip", i+1).Msg("watermark failed, keeping plain clip")
		} else {
			finalPath = wmPath
		}
	}

	reason := m.Reason
	if reason == "" {
		reason = "AI Selected"
	}
	title := m.Title
	if title == "" {
		title = fmt.Sprintf("Clip %d", i+1)
	}
	return types.ClipResult{
		Path:        finalPath,
		URL:         "/static/" + filepath.Base(finalPath),
		Reason:      reason,
		Start:       m.Start,
		End:         m.End,
		Title:       title,
		Description: m.Description,
		Hashtags:    m.Hashtags,
	}, nil
}

// heuristicSource closes over a single duration probe so repeated
// heuristic calls during backfill don't re-probe the file.
func (p *Pipeline) heuristicSource(ctx context.Context, videoPath string, clipDuration float64) moments.Source {
	probed := false
	duration := 0.0
	return func(n int) []types.Moment {
		if !probed {
			d, err := p.d.Video.ProbeDuration(ctx, videoPath)
			if err != nil {
				p.d.Logger.Warn().Err(err).Msg("duration probe failed")
				return nil
			}
			duration = d
			probed = true
		}
		return moments.Heuristic(duration, n, clipDuration)
	}
}

type RegenerateRequest struct {
	FileID       string
	Start        float64
	End          float64
	CaptionStyle string
	Overrides    types.StyleOverrides
}

type RegenerateResult struct {
	Status string `json:"status"`
	URL    string `json:"url"`
	Path   string `json:"path"`
}

// Regenerate re-renders a single window with a different style using
// the cached transcript, skipping transcription entirely. It needs
// only the cache file and the original source file's identity.
func (p *Pipeline) Regenerate(ctx context.Context, req RegenerateRequest) (RegenerateResult, error) {
	segments, err := p.d.Store.Load(req.FileID)
	if err != nil {
		return RegenerateResult{}, fmt.Errorf("load transcript: %w", err)
	}

	videoPath, err := p.findSource(req.FileID)
	if err != nil {
		return RegenerateResult{}, err
	}

	base := fmt.Sprintf("%s_regen_%d", req.FileID, time.Now().Unix())
	srtPath := filepath.Join(p.outputDir, base+".srt")
	outputPath := filepath.Join(p.outputDir, base+".mp4")

	cues := captions.BuildCues(segments, req.Start)
	if err := os.WriteFile(srtPath, []byte(captions.FormatSRT(cues)), 0o644); err != nil {
		return RegenerateResult{}, fmt.Errorf("caption generation failed: %w", err)
	}

	style := styles.Resolve(req.CaptionStyle, req.Overrides)
	if err := p.d.Video.CutVertical(ctx, videoPath, req.Start, req.End, outputPath, srtPath, style.String()); err != nil {
		return RegenerateResult{}, fmt.Errorf("regeneration failed: %w", err)
	}

	return RegenerateResult{
		Status: "completed",
		URL:    "/static/" + base + ".mp4",
		Path:   outputPath,
	}, nil
}

// findSource locates the original upload for an identity, whatever
// its extension.
func (p *Pipeline) findSource(fileID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(p.uploadDir, fileID+".*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, fileID)
	}
	return matches[0], nil
}

// SourceIdentity derives the stable cache key from a source file path.
func SourceIdentity(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
