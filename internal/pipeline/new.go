package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/ngthtai/transcript-flow/internal/assembler"
	"github.com/ngthtai/transcript-flow/internal/config"
	"github.com/ngthtai/transcript-flow/internal/logger"
	"github.com/ngthtai/transcript-flow/internal/splitter"
	"github.com/ngthtai/transcript-flow/internal/transcriber"
	"github.com/ngthtai/transcript-flow/pkg/executor"
)

type implPipeline struct {
	cfg         *config.Config
	splitter    splitter.Splitter
	transcriber transcriber.Transcriber
	assemble    assembler.Options
	retryBase   time.Duration
	runID       string
	logger      logger.Logger
}

// New creates a Pipeline wired to ffmpeg subprocesses and the remote
// speech-to-text service. runID tags this run's report. A missing tool
// or credential fails here, before any source is processed.
func New(cfg *config.Config, log logger.Logger, runID string) (Pipeline, error) {
	exec := executor.New()
	if err := preflight(cfg, exec); err != nil {
		return nil, err
	}

	sp := splitter.New(splitter.Options{
		ChunkDuration: time.Duration(cfg.Split.ChunkSeconds) * time.Second,
		Overlap:       time.Duration(cfg.Split.OverlapSeconds) * time.Second,
		FFmpegBin:     cfg.Split.FFmpegBin,
		FFprobeBin:    cfg.Split.FFprobeBin,
	}, exec, log)

	tr := transcriber.New(cfg.Transcribe.BaseURL, cfg.Transcribe.Model, cfg.Transcribe.APIKey)

	return &implPipeline{
		cfg:         cfg,
		splitter:    sp,
		transcriber: tr,
		assemble:    assembler.DefaultOptions(),
		runID:       runID,
		logger:      log,
	}, nil
}

// NewForTests creates a Pipeline with injectable stage implementations.
func NewForTests(cfg *config.Config, log logger.Logger, sp splitter.Splitter, tr transcriber.Transcriber) Pipeline {
	return &implPipeline{
		cfg:         cfg,
		splitter:    sp,
		transcriber: tr,
		assemble:    assembler.DefaultOptions(),
		retryBase:   time.Millisecond,
		runID:       uuid.NewString(),
		logger:      log,
	}
}
