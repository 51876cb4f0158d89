// Package ffmpeg shells out to ffmpeg/ffprobe for audio extraction,
// vertical-crop clip rendering with burned captions, trimming, and
// duration probing.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	preset  string
}

func New(ffmpegPath, ffprobePath, preset string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if preset == "" {
		preset = "fast"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, preset: preset}
}

// ExtractAudio pulls the audio track as mp3 at best VBR quality.
func (a *Adapter) ExtractAudio(ctx context.Context, inVideo, outAudio string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-i", inVideo,
		"-q:a", "0",
		"-map", "a",
		outAudio,
		"-y",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// CutVertical cuts [start,end) from the source, center-crops to 9:16
// vertical, and optionally burns subtitles with a force_style string.
//
// Seeking with -ss before -i resets timestamps to zero, which is what
// makes the clip-relative subtitle file line up; duration must then be
// given with -t rather than -to.
func (a *Adapter) CutVertical(ctx context.Context, inVideo string, start, end float64, outVideo, subtitlePath, forceStyle string) error {
	filters := []string{"scale=-1:1920,crop=1080:1920"}
	if subtitlePath != "" {
		filters = append(filters, fmt.Sprintf("subtitles='%s':force_style='%s'", escapeFilterPath(subtitlePath), forceStyle))
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-ss", fmtSeconds(start),
		"-i", inVideo,
		"-t", fmtSeconds(end-start),
		"-vf", strings.Join(filters, ","),
		"-c:v", "libx264",
		"-c:a", "aac",
		outVideo,
		"-y",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg cut clip: %w\n%s", err, string(b))
	}
	return nil
}

// TrimSource re-encodes [start,end) of the source into a new file.
// Re-encoding keeps timestamps and keyframes valid for the precise
// cuts made later. An end of 0 means "until the end of the video".
func (a *Adapter) TrimSource(ctx context.Context, inVideo string, start, end float64, outVideo string) error {
	args := []string{"-y"}
	if start > 0 {
		args = append(args, "-ss", fmtSeconds(start))
	}
	args = append(args, "-i", inVideo)
	if end > 0 {
		args = append(args, "-t", fmtSeconds(end-start))
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", a.preset,
		"-c:a", "aac",
		outVideo,
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg trim source: %w\n%s", err, string(b))
	}
	return nil
}

// Watermark overlays text at the bottom-right corner with a subtle
// border, copying the audio track untouched.
func (a *Adapter) Watermark(ctx context.Context, inVideo, outVideo, text string) error {
	filter := fmt.Sprintf(
		"drawtext=text='%s':fontsize=24:fontcolor=white@0.8:borderw=2:bordercolor=black@0.5:x=w-tw-20:y=h-th-20",
		escapeDrawtext(text),
	)
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inVideo,
		"-vf", filter,
		"-c:a", "copy",
		outVideo,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg watermark: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, inVideo string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inVideo,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// escapeFilterPath escapes a path for use inside a filter argument.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}

func escapeDrawtext(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	s = strings.ReplaceAll(s, ":", "\\:")
	return s
}
