package pipeline

import (
	"context"

	"github.com/ngthtai/transcript-flow/internal/domain"
)

// Pipeline runs the split-transcribe-assemble stage for source audio.
type Pipeline interface {
	// ProcessFile handles one source file end to end. The returned error
	// is non-nil only when the whole file failed; partial results are
	// expressed through the report.
	ProcessFile(ctx context.Context, sourcePath string) (domain.SourceReport, error)
	// ProcessDir handles every supported audio file in dir, one file at
	// a time. One file's failure never stops its siblings.
	ProcessDir(ctx context.Context, dir string) ([]domain.SourceReport, error)
}
