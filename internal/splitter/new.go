package splitter

import (
	"time"

	"github.com/ngthtai/transcript-flow/internal/logger"
	"github.com/ngthtai/transcript-flow/pkg/executor"
)

// Options tunes chunk geometry and the external tool binaries.
type Options struct {
	ChunkDuration time.Duration
	Overlap       time.Duration
	FFmpegBin     string
	FFprobeBin    string
}

type implSplitter struct {
	opts     Options
	executor executor.Executor
	logger   logger.Logger
}

// New creates a Splitter instance backed by ffmpeg/ffprobe subprocesses.
func New(opts Options, exec executor.Executor, log logger.Logger) Splitter {
	if opts.FFmpegBin == "" {
		opts.FFmpegBin = "ffmpeg"
	}
	if opts.FFprobeBin == "" {
		opts.FFprobeBin = "ffprobe"
	}

	return &implSplitter{
		opts:     opts,
		executor: exec,
		logger:   log,
	}
}
