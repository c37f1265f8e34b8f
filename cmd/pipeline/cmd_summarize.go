package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ngthtai/transcript-flow/internal/metrics"
	"github.com/ngthtai/transcript-flow/internal/pipeline"
	"github.com/ngthtai/transcript-flow/internal/summarizer"
	"github.com/ngthtai/transcript-flow/pkg/pool"
)

func newSummarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Summarize assembled transcripts into article-style documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, _, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			hooks := pool.Hooks{
				OnRetry: func(index, attempt int, delay time.Duration, err error) {
					metrics.RecordRetry("summarize")
					log.Warn(ctx, "Summary task %d attempt %d failed, retrying in %s: %v", index, attempt, delay, err)
				},
				OnDone: func(index, attempts int, elapsed time.Duration, err error) {
					metrics.RecordTask("summarize", err == nil)
					metrics.RecordDuration("summarize", elapsed.Seconds())
				},
			}

			s, err := summarizer.New(summarizer.Options{
				Model:         cfg.Summarize.Model,
				APIKeys:       cfg.Summarize.APIKeys,
				MaxWorkers:    cfg.Summarize.MaxWorkers,
				MaxRetries:    cfg.Summarize.MaxRetries,
				TargetLength:  cfg.Summarize.TargetLength,
				MaxInputChars: cfg.Summarize.MaxInputChars,
				ExportDocx:    cfg.Summarize.ExportDocx,
			}, log, hooks)
			if err != nil {
				return err
			}

			reports, err := s.SummarizeAll(ctx, cfg.Paths.Transcripts, cfg.Paths.Summaries)
			if err != nil {
				return err
			}

			fmt.Print(pipeline.FormatReport(reports))
			if pipeline.ExitCode(reports) != 0 {
				return fmt.Errorf("one or more transcripts failed to summarize")
			}
			return nil
		},
	}
}
