package splitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ngthtai/transcript-flow/internal/domain"
)

// Span is one chunk's position in the source timeline.
type Span struct {
	Start time.Duration
	Span  time.Duration
}

// Boundaries computes chunk positions for a source of the given total
// duration. The first chunk starts at 0; every later chunk starts overlap
// before its nominal boundary so no audio is lost at a cut. The last chunk
// is clamped to the end of the source.
func Boundaries(total, chunk, overlap time.Duration) []Span {
	if total <= 0 || chunk <= 0 {
		return nil
	}

	var spans []Span
	for i := 0; ; i++ {
		nominal := time.Duration(i) * chunk
		if nominal >= total {
			break
		}

		start := nominal
		if i > 0 {
			start -= overlap
		}
		end := min(nominal+chunk, total)

		spans = append(spans, Span{Start: start, Span: end - start})
	}

	return spans
}

// Split probes the source duration and cuts one mp3 file per chunk into
// workDir, named {source}_{index:04d}.mp3. Any tool failure is fatal for
// this source only.
func (s *implSplitter) Split(ctx context.Context, sourcePath, workDir string) ([]domain.Chunk, error) {
	name := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	if _, err := s.executor.LookPath(s.opts.FFmpegBin); err != nil {
		return nil, domain.NewError(domain.SPLIT_FAILED, "ffmpeg binary not found", err)
	}

	total, err := s.probeDuration(ctx, sourcePath)
	if err != nil {
		return nil, domain.NewError(domain.SPLIT_FAILED, fmt.Sprintf("probe duration of %s", sourcePath), err)
	}

	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, domain.NewError(domain.SPLIT_FAILED, "create work directory", err)
	}

	spans := Boundaries(total, s.opts.ChunkDuration, s.opts.Overlap)
	s.logger.Info(ctx, "Splitting %s (%s) into %d chunks", sourcePath, total, len(spans))

	chunks := make([]domain.Chunk, 0, len(spans))
	for i, span := range spans {
		chunkPath := filepath.Join(workDir, fmt.Sprintf("%s_%04d.mp3", name, i))

		args := []string{
			"-hide_banner",
			"-nostdin",
			"-y",
			"-ss", formatSeconds(span.Start),
			"-t", formatSeconds(span.Span),
			"-i", sourcePath,
			"-vn",
			"-ar", "16000",
			"-ac", "1",
			"-c:a", "libmp3lame",
			chunkPath,
		}

		if _, err := s.executor.Execute(ctx, s.opts.FFmpegBin, args...); err != nil {
			return nil, domain.NewError(domain.SPLIT_FAILED, fmt.Sprintf("cut chunk %d of %s", i, sourcePath), err)
		}

		overlap := time.Duration(0)
		if i > 0 {
			overlap = s.opts.Overlap
		}

		chunks = append(chunks, domain.Chunk{
			SourceName: name,
			Index:      i,
			Start:      span.Start,
			Span:       span.Span,
			Overlap:    overlap,
			Path:       chunkPath,
		})

		s.logger.Debug(ctx, "Chunk %d: start=%s span=%s -> %s", i, span.Start, span.Span, chunkPath)
	}

	return chunks, nil
}

// probeDuration asks ffprobe for the source length in seconds.
func (s *implSplitter) probeDuration(ctx context.Context, sourcePath string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		sourcePath,
	}

	out, err := s.executor.Execute(ctx, s.opts.FFprobeBin, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe output %q: %w", strings.TrimSpace(out), err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
