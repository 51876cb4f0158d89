// Package config holds all process configuration, constructed once at
// startup and passed into the pipeline components. There is no
// ambient global state.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	UploadDir  string `yaml:"upload_dir"`
	OutputDir  string `yaml:"output_dir"`
	ListenAddr string `yaml:"listen_addr"`

	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Whisper   WhisperConfig   `yaml:"whisper"`
	YtDlp     YtDlpConfig     `yaml:"ytdlp"`
	Instagram InstagramConfig `yaml:"instagram"`
	Defaults  DefaultsConfig  `yaml:"defaults"`
}

type FFmpegConfig struct {
	BinaryPath  string `yaml:"binary_path"`
	ProbePath   string `yaml:"probe_path"`
	VideoPreset string `yaml:"video_preset"`
}

// OpenAIConfig covers both the hosted transcription and the chat
// analysis calls. BaseURL supports OpenAI-compatible providers.
type OpenAIConfig struct {
	APIKey       string `yaml:"-"`
	BaseURL      string `yaml:"base_url"`
	ChatModel    string `yaml:"chat_model"`
	WhisperModel string `yaml:"whisper_model"`
}

// WhisperConfig points at a local whisper.cpp install used when no
// API key is configured.
type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
}

type YtDlpConfig struct {
	BinaryPath string `yaml:"binary_path"`
}

// InstagramConfig enables sharing when ProfileDir points at a browser
// profile that is already logged in. Empty disables the feature.
type InstagramConfig struct {
	ProfileDir string `yaml:"profile_dir"`
}

type DefaultsConfig struct {
	NumShorts    int    `yaml:"num_shorts"`
	ClipDuration int    `yaml:"clip_duration"`
	CaptionStyle string `yaml:"caption_style"`
	Language     string `yaml:"language"`
}

// Load reads configuration from an optional YAML file, then overlays
// environment variables. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		UploadDir:  "uploads",
		OutputDir:  "processed",
		ListenAddr: ":8000",
		FFmpeg: FFmpegConfig{
			BinaryPath:  "ffmpeg",
			ProbePath:   "ffprobe",
			VideoPreset: "fast",
		},
		OpenAI: OpenAIConfig{
			ChatModel:    "gpt-4o-mini",
			WhisperModel: "whisper-1",
		},
		Whisper: WhisperConfig{
			BinaryPath: ".cache/bin/whisper.cpp",
			ModelPath:  ".cache/models/ggml-small.bin",
		},
		YtDlp: YtDlpConfig{BinaryPath: "yt-dlp"},
		Defaults: DefaultsConfig{
			NumShorts:    4,
			ClipDuration: 60,
			CaptionStyle: "Classic",
			Language:     "en",
		},
	}
}

func findConfigFile() string {
	for _, p := range []string{"clipforge.yaml", "clipforge.yml"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.OpenAI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_CHAT_MODEL"); v != "" {
		c.OpenAI.ChatModel = v
	}
	if v := os.Getenv("CLIPFORGE_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("CLIPFORGE_INSTAGRAM_PROFILE"); v != "" {
		c.Instagram.ProfileDir = v
	}
	if v := os.Getenv("CLIPFORGE_NUM_SHORTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Defaults.NumShorts = n
		}
	}
}

func (c *Config) Validate() error {
	if c.UploadDir == "" {
		return errors.New("upload dir is empty")
	}
	if c.OutputDir == "" {
		return errors.New("output dir is empty")
	}
	if c.FFmpeg.BinaryPath == "" {
		return errors.New("ffmpeg binary path is empty")
	}
	if c.Defaults.NumShorts <= 0 {
		return fmt.Errorf("num shorts must be > 0")
	}
	if c.Defaults.ClipDuration <= 0 {
		return fmt.Errorf("clip duration must be > 0")
	}
	if c.OpenAI.APIKey == "" && c.Whisper.ModelPath == "" {
		return errors.New("either an OpenAI API key or a local whisper model is required")
	}
	return nil
}
