// Package ytdlp downloads source videos from URLs via the yt-dlp
// command-line tool.
package ytdlp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"
)

type Adapter struct {
	bin         string
	downloadDir string
}

func New(binPath, downloadDir string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath, downloadDir: downloadDir}
}

// Download fetches the URL into the download directory under a fresh
// identity and returns the produced file's path. yt-dlp picks the
// final extension, so the result is located by globbing the identity.
func (a *Adapter) Download(ctx context.Context, url string) (string, error) {
	id := newID(url)
	template := filepath.Join(a.downloadDir, id+".%(ext)s")

	cmd := exec.CommandContext(ctx, a.bin,
		"-f", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
		"-o", template,
		"--no-playlist",
		"--force-ipv4",
		"--quiet",
		"--no-warnings",
		url,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp download: %w\n%s", err, string(b))
	}

	matches, err := filepath.Glob(filepath.Join(a.downloadDir, id+".*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("yt-dlp produced no file for %s", url)
	}
	return filepath.Abs(matches[0])
}

func newID(url string) string {
	seed := fmt.Sprintf("%s|%d", url, time.Now().UnixNano())
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])[:12]
}
