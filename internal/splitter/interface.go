package splitter

import (
	"context"

	"github.com/ngthtai/transcript-flow/internal/domain"
)

// Splitter cuts a source audio file into overlapping fixed-duration chunks.
type Splitter interface {
	Split(ctx context.Context, sourcePath, workDir string) ([]domain.Chunk, error)
}
