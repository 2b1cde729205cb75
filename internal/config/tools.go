package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	"videomasa/internal/app/tools"
)

// ToolConfig is the optional YAML file naming the external binaries and their limits.
//
//	binaries:
//	  yt_dlp: /opt/homebrew/bin/yt-dlp
//	  whisper: whisper
//	  ffmpeg: ""          # bundled ../Resources/ffmpeg, then PATH
//	timeouts:
//	  download: 10m
//	heartbeat:
//	  interval: 30s
//	  timeout: 90s
//	models: [tiny, base, small, medium, large]
type ToolConfig struct {
	Binaries     Binaries       `yaml:"binaries"`
	Timeouts     tools.Timeouts `yaml:"timeouts"`
	Heartbeat    Heartbeat      `yaml:"heartbeat"`
	Models       []string       `yaml:"models"`
	HistoryLimit int            `yaml:"history_limit"`
}

type Binaries struct {
	YtDlp   string `yaml:"yt_dlp"`
	Whisper string `yaml:"whisper"`
	FFmpeg  string `yaml:"ffmpeg"`
}

type Heartbeat struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
	// Disabled turns the watchdog off, e.g. when running headless.
	Disabled bool `yaml:"disabled"`
}

// DefaultToolConfig returns the configuration used when no file is given.
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		Binaries: Binaries{YtDlp: "yt-dlp", Whisper: "whisper"},
		Timeouts: tools.DefaultTimeouts(),
		Heartbeat: Heartbeat{
			Interval: DefaultHeartbeatInterval,
			Timeout:  DefaultHeartbeatTimeout,
		},
		HistoryLimit: DefaultHistoryLimit,
	}
}

// LoadToolConfig reads path over the defaults. An empty path returns the defaults.
// Binary paths may reference environment variables ($HOME/bin/yt-dlp).
func LoadToolConfig(path string) (*ToolConfig, error) {
	cfg := DefaultToolConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Binaries.YtDlp = os.ExpandEnv(cfg.Binaries.YtDlp)
	cfg.Binaries.Whisper = os.ExpandEnv(cfg.Binaries.Whisper)
	cfg.Binaries.FFmpeg = os.ExpandEnv(cfg.Binaries.FFmpeg)
	cfg.Timeouts = cfg.Timeouts.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *ToolConfig) Validate() error {
	checks := []struct {
		name    string
		timeout time.Duration
	}{
		{"thumbnail", c.Timeouts.Thumbnail},
		{"download", c.Timeouts.Download},
		{"transcription", c.Timeouts.Transcription},
		{"transcode", c.Timeouts.Transcode},
	}
	for _, check := range checks {
		if err := ValidateTimeout(check.timeout, check.name); err != nil {
			return err
		}
	}

	if !c.Heartbeat.Disabled {
		if err := ValidateTimeout(c.Heartbeat.Interval, "heartbeat interval"); err != nil {
			return err
		}
		if c.Heartbeat.Timeout < c.Heartbeat.Interval {
			return fmt.Errorf("heartbeat timeout %s is shorter than the interval %s", c.Heartbeat.Timeout, c.Heartbeat.Interval)
		}
	}

	seen := make(map[string]bool, len(c.Models))
	for _, m := range c.Models {
		if m == "" {
			return fmt.Errorf("model names must not be empty")
		}
		if seen[m] {
			return fmt.Errorf("duplicate model %q", m)
		}
		seen[m] = true
	}
	if len(c.Models) > 0 && !seen["base"] {
		return fmt.Errorf("models must include base, the fallback model")
	}
	return nil
}
