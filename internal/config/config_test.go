package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OutputDir != "processed" {
		t.Fatalf("unexpected default output dir: %s", cfg.OutputDir)
	}
	if cfg.Defaults.NumShorts != 4 || cfg.Defaults.ClipDuration != 60 {
		t.Fatalf("unexpected defaults: %+v", cfg.Defaults)
	}
}

func TestLoad_FileAndEnvOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clipforge.yaml")
	body := "output_dir: out\ndefaults:\n  num_shorts: 2\n  caption_style: Karaoke\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CLIPFORGE_NUM_SHORTS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OutputDir != "out" {
		t.Fatalf("unexpected output dir: %s", cfg.OutputDir)
	}
	if cfg.Defaults.CaptionStyle != "Karaoke" {
		t.Fatalf("unexpected caption style: %s", cfg.Defaults.CaptionStyle)
	}
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("env API key not applied")
	}
	if cfg.Defaults.NumShorts != 7 {
		t.Fatalf("env overlay should win over file, got %d", cfg.Defaults.NumShorts)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := defaultConfig()
		c.OpenAI.APIKey = "sk-test"
		return c
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]func(*Config){
		"empty output dir":   func(c *Config) { c.OutputDir = "" },
		"empty upload dir":   func(c *Config) { c.UploadDir = "" },
		"zero shorts":        func(c *Config) { c.Defaults.NumShorts = 0 },
		"zero clip duration": func(c *Config) { c.Defaults.ClipDuration = 0 },
		"no transcriber":     func(c *Config) { c.OpenAI.APIKey = ""; c.Whisper.ModelPath = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
