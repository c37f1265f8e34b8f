package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ngthtai/transcript-flow/internal/config"
	"github.com/ngthtai/transcript-flow/internal/logger"
)

// setup loads the configuration, builds the logger and ensures the
// working directories exist. Every subcommand starts here.
func setup(cmd *cobra.Command) (*config.Config, logger.Logger, string, error) {
	ctx := context.Background()

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, "", err
	}

	var log logger.Logger
	if cfg.Logging.File != "" {
		log = logger.NewWithFile(cfg.Logging.Level, cfg.Logging.File)
	} else {
		log = logger.New(cfg.Logging.Level)
	}

	runID := uuid.NewString()
	log.Info(ctx, "Run %s (config: %s)", runID, path)

	for _, dir := range []string{cfg.Paths.Input, cfg.Paths.Work, cfg.Paths.Transcripts, cfg.Paths.Summaries} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, "", err
		}
	}

	return cfg, log, runID, nil
}
