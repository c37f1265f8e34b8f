package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ngthtai/transcript-flow/internal/metrics"
	"github.com/ngthtai/transcript-flow/internal/pipeline"
	"github.com/ngthtai/transcript-flow/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the input directory and transcribe new audio files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, runID, err := setup(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if cfg.Metrics.Listen != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", metrics.Handler())
				srv := &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}
				go func() {
					log.Info(ctx, "Metrics listening on %s", cfg.Metrics.Listen)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error(ctx, "Metrics server: %v", err)
					}
				}()
				defer srv.Close()
			}

			p, err := pipeline.New(cfg, log, runID)
			if err != nil {
				return err
			}
			handler := func(ctx context.Context, path string) error {
				_, err := p.ProcessFile(ctx, path)
				return err
			}

			w, err := watcher.New(cfg.Paths.Input, handler, log, cfg.Watch.MaxConcurrent)
			if err != nil {
				return err
			}
			defer w.Stop()

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
