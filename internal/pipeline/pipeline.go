package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ngthtai/transcript-flow/internal/assembler"
	"github.com/ngthtai/transcript-flow/internal/domain"
	"github.com/ngthtai/transcript-flow/internal/metrics"
	"github.com/ngthtai/transcript-flow/pkg/pool"
)

var audioExtensions = map[string]bool{
	".mp3": true,
	".m4a": true,
	".wav": true,
}

// ProcessFile splits one source file, transcribes the chunks through the
// worker pool and assembles the transcript. Chunk failures become gaps;
// only a split failure or a fully gapped transcript fails the file.
func (p *implPipeline) ProcessFile(ctx context.Context, sourcePath string) (domain.SourceReport, error) {
	start := time.Now()
	base := filepath.Base(sourcePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	report := domain.SourceReport{Source: base, Status: domain.StatusFailed}

	p.logger.Info(ctx, "Processing %s", sourcePath)

	chunks, err := p.splitter.Split(ctx, sourcePath, p.cfg.Paths.Work)
	if err != nil {
		report.Reason = string(domain.CodeOf(err))
		return report, err
	}
	if len(chunks) == 0 {
		report.Reason = string(domain.SPLIT_FAILED)
		return report, domain.NewError(domain.SPLIT_FAILED, fmt.Sprintf("no chunks produced for %s", base), nil)
	}
	report.Chunks = len(chunks)
	defer p.cleanupChunks(ctx, chunks)

	fragments := p.transcribeChunks(ctx, chunks)
	p.persistFragments(ctx, name, fragments)

	result := assembler.Assemble(fragments, len(chunks), p.assemble)
	report.GapIndexes = result.Gaps

	if len(result.Gaps) == len(chunks) {
		err := firstFragmentError(fragments)
		report.Reason = string(domain.CodeOf(err))
		return report, domain.NewError(domain.TASK_FAILED, fmt.Sprintf("all %d chunks of %s failed", len(chunks), base), err)
	}

	if err := os.MkdirAll(p.cfg.Paths.Transcripts, 0755); err != nil {
		report.Reason = string(domain.TASK_FAILED)
		return report, domain.NewError(domain.TASK_FAILED, "create transcript directory", err)
	}
	outPath := filepath.Join(p.cfg.Paths.Transcripts, name+".txt")
	if err := os.WriteFile(outPath, []byte(result.Text+"\n"), 0644); err != nil {
		report.Reason = string(domain.TASK_FAILED)
		return report, domain.NewError(domain.TASK_FAILED, "write transcript", err)
	}
	report.OutputPath = outPath

	if len(result.Gaps) == 0 {
		report.Status = domain.StatusSuccess
	} else {
		report.Status = domain.StatusPartial
	}

	p.logger.Info(ctx, "Finished %s in %s: %d chunks, %d gaps", base, time.Since(start).Round(time.Millisecond), len(chunks), len(result.Gaps))
	return report, nil
}

// ProcessDir transcribes every supported audio file in dir in name order
// and writes a run report next to the transcripts.
func (p *implPipeline) ProcessDir(ctx context.Context, dir string) ([]domain.SourceReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.NewError(domain.INVALID_INPUT, fmt.Sprintf("read input directory %s", dir), err)
	}

	var sources []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if audioExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			sources = append(sources, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(sources)

	if len(sources) == 0 {
		p.logger.Warn(ctx, "No audio files found in %s", dir)
		return nil, nil
	}

	reports := make([]domain.SourceReport, 0, len(sources))
	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		report, err := p.ProcessFile(ctx, src)
		if err != nil {
			p.logger.Error(ctx, "Failed %s: %v", src, err)
		}
		reports = append(reports, report)
	}

	if err := p.writeReport(ctx, reports); err != nil {
		p.logger.Warn(ctx, "Failed to write run report: %v", err)
	}
	return reports, nil
}

func (p *implPipeline) transcribeChunks(ctx context.Context, chunks []domain.Chunk) []domain.Fragment {
	hooks := pool.Hooks{
		OnRetry: func(index, attempt int, delay time.Duration, err error) {
			metrics.RecordRetry("transcribe")
			p.logger.Warn(ctx, "Chunk %d attempt %d failed, retrying in %s: %v", index, attempt, delay, err)
		},
		OnDone: func(index, attempts int, elapsed time.Duration, err error) {
			metrics.RecordTask("transcribe", err == nil)
			metrics.RecordDuration("transcribe", elapsed.Seconds())
		},
	}
	popts := []pool.Option{pool.WithHooks(hooks)}
	if p.retryBase > 0 {
		popts = append(popts, pool.WithBaseDelay(p.retryBase))
	}
	workers := pool.New(p.cfg.Transcribe.MaxWorkers, p.cfg.Transcribe.MaxRetries, popts...)

	tasks := make([]pool.Task, len(chunks))
	for i, c := range chunks {
		c := c
		tasks[i] = pool.Task{
			Index: c.Index,
			Call: func(ctx context.Context) (string, error) {
				return p.transcriber.Transcribe(ctx, c.Path)
			},
		}
	}

	outcomes := workers.Run(ctx, tasks)

	fragments := make([]domain.Fragment, len(outcomes))
	for i, out := range outcomes {
		err := out.Err
		if errors.Is(err, pool.ErrCanceled) {
			err = domain.NewError(domain.CANCELED, fmt.Sprintf("chunk %d dropped before dispatch", out.Index), err)
		}
		fragments[i] = domain.Fragment{
			SourceName: chunks[0].SourceName,
			Index:      out.Index,
			Text:       out.Value,
			Err:        err,
		}
	}
	return fragments
}

// persistFragments keeps the raw per-chunk texts in the working directory
// so a partial run can be inspected without re-transcribing.
func (p *implPipeline) persistFragments(ctx context.Context, name string, fragments []domain.Fragment) {
	for _, f := range fragments {
		if f.Err != nil {
			continue
		}
		path := filepath.Join(p.cfg.Paths.Work, fmt.Sprintf("%s_%04d.txt", name, f.Index))
		if err := os.WriteFile(path, []byte(f.Text+"\n"), 0644); err != nil {
			p.logger.Warn(ctx, "Failed to persist fragment %d: %v", f.Index, err)
		}
	}
}

func (p *implPipeline) cleanupChunks(ctx context.Context, chunks []domain.Chunk) {
	for _, c := range chunks {
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			p.logger.Warn(ctx, "Failed to remove chunk file %s: %v", c.Path, err)
		}
	}
}

func (p *implPipeline) writeReport(ctx context.Context, reports []domain.SourceReport) error {
	if len(reports) == 0 {
		return nil
	}
	if err := os.MkdirAll(p.cfg.Paths.Transcripts, 0755); err != nil {
		return err
	}
	path := filepath.Join(p.cfg.Paths.Transcripts, "report.txt")
	text := fmt.Sprintf("run %s\n%s", p.runID, FormatReport(reports))
	p.logger.Info(ctx, "Run report:\n%s", text)
	return os.WriteFile(path, []byte(text), 0644)
}

func firstFragmentError(fragments []domain.Fragment) error {
	for _, f := range fragments {
		if f.Err != nil {
			return f.Err
		}
	}
	return nil
}
