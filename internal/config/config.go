package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Split      SplitConfig      `yaml:"split"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Summarize  SummarizeConfig  `yaml:"summarize"`
	Watch      WatchConfig      `yaml:"watch"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type PathsConfig struct {
	Input       string `yaml:"input"`
	Work        string `yaml:"work"`
	Transcripts string `yaml:"transcripts"`
	Summaries   string `yaml:"summaries"`
}

type SplitConfig struct {
	ChunkSeconds   int    `yaml:"chunk_seconds"`
	OverlapSeconds int    `yaml:"overlap_seconds"`
	FFmpegBin      string `yaml:"ffmpeg_bin"`
	FFprobeBin     string `yaml:"ffprobe_bin"`
}

type TranscribeConfig struct {
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	MaxWorkers int    `yaml:"max_workers"`
	MaxRetries int    `yaml:"max_retries"`
}

type SummarizeConfig struct {
	Model         string   `yaml:"model"`
	APIKeys       []string `yaml:"api_keys"`
	MaxWorkers    int      `yaml:"max_workers"`
	MaxRetries    int      `yaml:"max_retries"`
	TargetLength  int      `yaml:"target_length"`
	MaxInputChars int      `yaml:"max_input_chars"`
	ExportDocx    bool     `yaml:"export_docx"`
}

type WatchConfig struct {
	// MaxConcurrent caps how many source files watch mode processes at
	// once. Each file still runs its own transcription worker pool.
	MaxConcurrent int `yaml:"max_concurrent"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Transcripts == "" {
		return fmt.Errorf("paths.transcripts is required")
	}
	if c.Split.ChunkSeconds < 0 || c.Split.OverlapSeconds < 0 {
		return fmt.Errorf("split durations must not be negative")
	}

	if c.Paths.Work == "" {
		c.Paths.Work = "data/work"
	}
	if c.Paths.Summaries == "" {
		c.Paths.Summaries = "data/summaries"
	}
	if c.Split.ChunkSeconds == 0 {
		c.Split.ChunkSeconds = 1200
	}
	if c.Split.OverlapSeconds == 0 {
		c.Split.OverlapSeconds = 20
	}
	if c.Split.OverlapSeconds >= c.Split.ChunkSeconds {
		return fmt.Errorf("split.overlap_seconds must be smaller than split.chunk_seconds")
	}
	if c.Split.FFmpegBin == "" {
		c.Split.FFmpegBin = "ffmpeg"
	}
	if c.Split.FFprobeBin == "" {
		c.Split.FFprobeBin = "ffprobe"
	}
	if c.Transcribe.BaseURL == "" {
		c.Transcribe.BaseURL = "https://api.openai.com/v1"
	}
	if c.Transcribe.Model == "" {
		c.Transcribe.Model = "whisper-1"
	}
	if c.Transcribe.MaxWorkers == 0 {
		c.Transcribe.MaxWorkers = 4
	}
	if c.Transcribe.MaxRetries == 0 {
		c.Transcribe.MaxRetries = 3
	}
	if c.Summarize.Model == "" {
		c.Summarize.Model = "gemini-2.5-flash"
	}
	if c.Summarize.MaxWorkers == 0 {
		c.Summarize.MaxWorkers = 2
	}
	if c.Summarize.MaxRetries == 0 {
		c.Summarize.MaxRetries = 3
	}
	if c.Summarize.TargetLength == 0 {
		c.Summarize.TargetLength = 2000
	}
	if c.Summarize.MaxInputChars == 0 {
		c.Summarize.MaxInputChars = 120000
	}
	if c.Watch.MaxConcurrent == 0 {
		c.Watch.MaxConcurrent = 1
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}

// applyEnv overrides credentials from the environment so keys can stay out
// of the config file.
func (c *Config) applyEnv() {
	if key := os.Getenv("TRANSCRIBE_API_KEY"); key != "" {
		c.Transcribe.APIKey = key
	}
	if keys := os.Getenv("SUMMARIZE_API_KEYS"); keys != "" {
		c.Summarize.APIKeys = c.Summarize.APIKeys[:0]
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Summarize.APIKeys = append(c.Summarize.APIKeys, k)
			}
		}
	}
}
