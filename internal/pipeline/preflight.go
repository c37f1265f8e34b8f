package pipeline

import (
	"fmt"

	"github.com/ngthtai/transcript-flow/internal/config"
	"github.com/ngthtai/transcript-flow/internal/domain"
	"github.com/ngthtai/transcript-flow/pkg/executor"
)

// preflight rejects a configuration that cannot possibly process any
// source: missing external tools and missing credentials are fatal here,
// before the first file is touched.
func preflight(cfg *config.Config, exec executor.Executor) error {
	ffmpeg := cfg.Split.FFmpegBin
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	ffprobe := cfg.Split.FFprobeBin
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}

	for _, bin := range []string{ffmpeg, ffprobe} {
		if _, err := exec.LookPath(bin); err != nil {
			return domain.NewError(domain.CONFIG_ERROR, fmt.Sprintf("required tool %s not found", bin), err)
		}
	}

	if cfg.Transcribe.APIKey == "" {
		return domain.NewError(domain.CONFIG_ERROR, "no transcription API key configured", nil)
	}

	return nil
}
