package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/ports/adapters/ffmpeg"
	"github.com/clipforge/clipforge/internal/ports/adapters/instagram"
	"github.com/clipforge/clipforge/internal/ports/adapters/openaiasr"
	"github.com/clipforge/clipforge/internal/ports/adapters/openaillm"
	"github.com/clipforge/clipforge/internal/ports/adapters/whispercpp"
	"github.com/clipforge/clipforge/internal/ports/adapters/ytdlp"
	"github.com/clipforge/clipforge/internal/server"
	"github.com/clipforge/clipforge/internal/transcripts"
)

// Compile-time wiring checks: every adapter constructed below must
// satisfy its port.
var (
	_ ports.VideoTool      = (*ffmpeg.Adapter)(nil)
	_ ports.ASR            = (*openaiasr.Adapter)(nil)
	_ ports.ASR            = (*whispercpp.Adapter)(nil)
	_ ports.MomentAnalyzer = (*openaillm.Adapter)(nil)
	_ ports.Downloader     = (*ytdlp.Adapter)(nil)
	_ ports.Publisher      = (*instagram.Publisher)(nil)
)

func buildPipeline(cfg *config.Config) *pipeline.Pipeline {
	video := ffmpeg.New(cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath, cfg.FFmpeg.VideoPreset)

	// Hosted Whisper when an API key is present, local whisper.cpp
	// otherwise. Validate() guarantees at least one is configured.
	var asr ports.ASR
	if cfg.OpenAI.APIKey != "" {
		asr = openaiasr.New(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.WhisperModel)
	} else {
		asr = whispercpp.New(cfg.Whisper.BinaryPath, cfg.Whisper.ModelPath)
	}

	return pipeline.New(cfg.UploadDir, cfg.OutputDir, pipeline.Deps{
		Video:      video,
		ASR:        asr,
		Analyzer:   openaillm.New(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.ChatModel),
		Downloader: ytdlp.New(cfg.YtDlp.BinaryPath, cfg.UploadDir),
		Store:      transcripts.NewStore(cfg.OutputDir),
		Logger:     logging.WithComponent("pipeline"),
	})
}

func runProcess(cmd *cobra.Command, configPath, input string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	req := pipeline.Request{
		NumShorts:    cfg.Defaults.NumShorts,
		CaptionStyle: cfg.Defaults.CaptionStyle,
		ClipDuration: cfg.Defaults.ClipDuration,
		Language:     cfg.Defaults.Language,
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		req.VideoURL = input
	} else {
		req.VideoPath = input
	}

	if n, _ := cmd.Flags().GetInt("clips"); n > 0 {
		req.NumShorts = n
	}
	if d, _ := cmd.Flags().GetInt("duration"); d > 0 {
		req.ClipDuration = d
	}
	if s, _ := cmd.Flags().GetString("style"); s != "" {
		req.CaptionStyle = s
	}
	if l, _ := cmd.Flags().GetString("language"); l != "" {
		req.Language = l
	}
	req.WatermarkText, _ = cmd.Flags().GetString("watermark")
	req.Overrides.TextColor, _ = cmd.Flags().GetString("color")
	req.Overrides.BgColor, _ = cmd.Flags().GetString("bg-color")
	req.Overrides.FontSize, _ = cmd.Flags().GetInt("font-size")
	if v, _ := cmd.Flags().GetFloat64("start"); v >= 0 {
		req.ProcessingStart = &v
	}
	if v, _ := cmd.Flags().GetFloat64("end"); v >= 0 {
		req.ProcessingEnd = &v
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Hour)
	defer cancel()

	res, err := buildPipeline(cfg).Process(ctx, req)
	if err != nil {
		return err
	}

	log := logging.WithComponent("cli")
	for _, c := range res.Clips {
		log.Info().Str("path", c.Path).Str("reason", c.Reason).Msg("clip ready")
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.ListenAddr = addr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var publisher ports.Publisher
	if cfg.Instagram.ProfileDir != "" {
		publisher = instagram.New(cfg.Instagram.ProfileDir)
	}

	log := logging.WithComponent("server")
	srv := server.New(buildPipeline(cfg), publisher, cfg.UploadDir, cfg.OutputDir, log)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(ctx)
	}
}
