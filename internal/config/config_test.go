package config

import (
	"os"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Paths: PathsConfig{
					Input:       "data/input",
					Transcripts: "data/transcripts",
				},
			},
			wantErr: false,
		},
		{
			name: "missing input path",
			config: Config{
				Paths: PathsConfig{
					Transcripts: "data/transcripts",
				},
			},
			wantErr: true,
		},
		{
			name: "missing transcripts path",
			config: Config{
				Paths: PathsConfig{
					Input: "data/input",
				},
			},
			wantErr: true,
		},
		{
			name: "overlap not smaller than chunk",
			config: Config{
				Paths: PathsConfig{
					Input:       "data/input",
					Transcripts: "data/transcripts",
				},
				Split: SplitConfig{
					ChunkSeconds:   60,
					OverlapSeconds: 60,
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{
		Paths: PathsConfig{
			Input:       "data/input",
			Transcripts: "data/transcripts",
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Split.ChunkSeconds != 1200 {
		t.Errorf("ChunkSeconds = %d, want 1200", cfg.Split.ChunkSeconds)
	}
	if cfg.Split.OverlapSeconds != 20 {
		t.Errorf("OverlapSeconds = %d, want 20", cfg.Split.OverlapSeconds)
	}
	if cfg.Transcribe.MaxWorkers != 4 {
		t.Errorf("Transcribe.MaxWorkers = %d, want 4", cfg.Transcribe.MaxWorkers)
	}
	if cfg.Transcribe.Model != "whisper-1" {
		t.Errorf("Transcribe.Model = %q, want whisper-1", cfg.Transcribe.Model)
	}
	if cfg.Summarize.Model != "gemini-2.5-flash" {
		t.Errorf("Summarize.Model = %q, want gemini-2.5-flash", cfg.Summarize.Model)
	}
	if cfg.Watch.MaxConcurrent != 1 {
		t.Errorf("Watch.MaxConcurrent = %d, want 1", cfg.Watch.MaxConcurrent)
	}
	if cfg.Summarize.TargetLength != 2000 {
		t.Errorf("Summarize.TargetLength = %d, want 2000", cfg.Summarize.TargetLength)
	}
}

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
paths:
  input: "data/input"
  work: "data/work"
  transcripts: "data/transcripts"
  summaries: "data/summaries"

split:
  chunk_seconds: 600
  overlap_seconds: 15

transcribe:
  model: "whisper-1"
  max_workers: 3
  max_retries: 2

logging:
  level: "info"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Test loading
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Split.ChunkSeconds != 600 {
		t.Errorf("ChunkSeconds = %v, want %v", cfg.Split.ChunkSeconds, 600)
	}

	if cfg.Paths.Input != "data/input" {
		t.Errorf("Input = %v, want %v", cfg.Paths.Input, "data/input")
	}

	if cfg.Transcribe.MaxWorkers != 3 {
		t.Errorf("MaxWorkers = %v, want %v", cfg.Transcribe.MaxWorkers, 3)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestAPIKeysFromEnv(t *testing.T) {
	t.Setenv("TRANSCRIBE_API_KEY", "sk-test")
	t.Setenv("SUMMARIZE_API_KEYS", "key-a, key-b")

	cfg := Config{}
	cfg.applyEnv()

	if cfg.Transcribe.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want sk-test", cfg.Transcribe.APIKey)
	}
	if len(cfg.Summarize.APIKeys) != 2 || cfg.Summarize.APIKeys[0] != "key-a" || cfg.Summarize.APIKeys[1] != "key-b" {
		t.Errorf("APIKeys = %v, want [key-a key-b]", cfg.Summarize.APIKeys)
	}
}
