package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ngthtai/transcript-flow/internal/domain"
	"github.com/ngthtai/transcript-flow/internal/pipeline"
)

func newTranscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe [file]",
		Short: "Transcribe audio files from the input directory (or one file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, runID, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := pipeline.New(cfg, log, runID)
			if err != nil {
				return err
			}

			var reports []domain.SourceReport
			if len(args) == 1 {
				report, err := p.ProcessFile(ctx, args[0])
				if err != nil {
					log.Error(ctx, "Failed %s: %v", args[0], err)
				}
				reports = []domain.SourceReport{report}
			} else {
				reports, err = p.ProcessDir(ctx, cfg.Paths.Input)
				if err != nil {
					return err
				}
			}

			fmt.Print(pipeline.FormatReport(reports))
			if pipeline.ExitCode(reports) != 0 {
				return fmt.Errorf("one or more source files failed")
			}
			return nil
		},
	}
}
