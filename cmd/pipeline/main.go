package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "pipeline",
		Short:   "Audio transcription and summarization pipeline",
		Long:    "Splits long audio recordings into overlapping chunks, transcribes them through a remote speech-to-text service and produces article-style summaries.",
		Version: version,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "config.yaml", "path to configuration file")

	rootCmd.AddCommand(newTranscribeCmd())
	rootCmd.AddCommand(newSummarizeCmd())
	rootCmd.AddCommand(newWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
