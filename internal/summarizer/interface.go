package summarizer

import (
	"context"

	"github.com/ngthtai/transcript-flow/internal/domain"
)

// Summarizer reads assembled transcripts and produces LLM-generated
// markdown summaries, one per transcript.
type Summarizer interface {
	SummarizeAll(ctx context.Context, transcriptDir, destDir string) ([]domain.SourceReport, error)
}
