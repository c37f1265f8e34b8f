package summarizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ngthtai/transcript-flow/internal/domain"
	"github.com/ngthtai/transcript-flow/pkg/pool"
)

const summaryPrompt = `You are a professional writer. Using the transcript below, write a magazine-style feature article of roughly %d characters.

Rules:
- Open with a catchy title that makes readers want to continue
- Cover every major point in the order it appears
- Cut redundant and filler phrasing
- Use markdown: headings, bullet points, bold for key terms

Transcript:
---
%s
---`

const condensePrompt = `The sections below are partial summaries of consecutive parts of one recording. Merge them into a single coherent article of roughly %d characters, keeping the original order of topics. Use markdown.

Partial summaries:
---
%s
---`

// document is one transcript queued for summarization, pre-split into
// parts that each fit the service input limit.
type document struct {
	name  string
	parts []string
}

// SummarizeAll reads every transcript from transcriptDir, summarizes each
// through the worker pool, and writes one markdown file per transcript
// into destDir. One document's failure never blocks its siblings.
func (s *implSummarizer) SummarizeAll(ctx context.Context, transcriptDir, destDir string) ([]domain.SourceReport, error) {
	files, err := s.discoverTranscripts(transcriptDir)
	if err != nil {
		return nil, fmt.Errorf("discover transcripts: %w", err)
	}

	if len(files) == 0 {
		s.logger.Info(ctx, "No transcripts found in %s", transcriptDir)
		return nil, nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("create dest dir: %w", err)
	}

	s.logger.Info(ctx, "Found %d transcripts to summarize", len(files))

	docs := make([]document, 0, len(files))
	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".txt")

		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Error(ctx, "Failed to read %s: %v", path, err)
			docs = append(docs, document{name: name})
			continue
		}

		parts := splitInput(string(content), s.opts.MaxInputChars)
		if len(parts) > 1 {
			s.logger.Info(ctx, "%s exceeds input limit, split into %d parts", name, len(parts))
		}
		docs = append(docs, document{name: name, parts: parts})
	}

	partials := s.summarizeParts(ctx, docs)

	var reports []domain.SourceReport
	for d, doc := range docs {
		report := s.finishDocument(ctx, doc, partials[d], destDir)
		reports = append(reports, report)
	}

	return reports, nil
}

// partResult is one document's partial summaries, or its first failure.
type partResult struct {
	summaries []string
	err       error
}

// summarizeParts pushes every (document, part) pair through one pool run
// and regroups outcomes per document.
func (s *implSummarizer) summarizeParts(ctx context.Context, docs []document) []partResult {
	type key struct{ doc, part int }

	var tasks []pool.Task
	keys := make(map[int]key)

	for d, doc := range docs {
		for i, part := range doc.parts {
			idx := len(tasks)
			keys[idx] = key{doc: d, part: i}

			prompt := fmt.Sprintf(summaryPrompt, s.opts.TargetLength, part)
			tasks = append(tasks, pool.Task{
				Index: idx,
				Call: func(ctx context.Context) (string, error) {
					return s.generate(ctx, s.opts.Model, prompt)
				},
			})
		}
	}

	outcomes := s.newPool().Run(ctx, tasks)

	results := make([]partResult, len(docs))
	for d, doc := range docs {
		results[d].summaries = make([]string, len(doc.parts))
	}
	for idx, out := range outcomes {
		k := keys[idx]
		if out.Err != nil {
			if results[k.doc].err == nil {
				results[k.doc].err = out.Err
			}
			continue
		}
		results[k.doc].summaries[k.part] = out.Value
	}

	return results
}

// finishDocument combines a document's partial summaries, condensing
// multi-part results with one more remote call, and writes the output.
func (s *implSummarizer) finishDocument(ctx context.Context, doc document, parts partResult, destDir string) domain.SourceReport {
	report := domain.SourceReport{
		Source: doc.name + ".txt",
		Chunks: len(doc.parts),
	}

	if len(doc.parts) == 0 {
		report.Status = domain.StatusFailed
		report.Reason = "transcript could not be read"
		return report
	}

	if parts.err != nil {
		s.logger.Error(ctx, "Skipping summary of %s: %v", doc.name, parts.err)
		report.Status = domain.StatusFailed
		report.Reason = string(domain.CodeOf(parts.err))
		return report
	}

	summary := parts.summaries[0]
	if len(parts.summaries) > 1 {
		combined, err := s.condense(ctx, parts.summaries)
		if err != nil {
			s.logger.Error(ctx, "Failed to condense %s: %v", doc.name, err)
			report.Status = domain.StatusFailed
			report.Reason = string(domain.CodeOf(err))
			return report
		}
		summary = combined
	}

	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		doc.name,
		time.Now().Format("2006-01-02 15:04"),
		strings.TrimSpace(summary),
	)

	mdPath := filepath.Join(destDir, doc.name+".md")
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		s.logger.Error(ctx, "Failed to write %s: %v", mdPath, err)
		report.Status = domain.StatusFailed
		report.Reason = "write summary file"
		return report
	}

	if s.opts.ExportDocx {
		docxPath := filepath.Join(destDir, doc.name+".docx")
		if err := markdownToDocx(doc.name, summary, docxPath); err != nil {
			s.logger.Warn(ctx, "Failed to export docx for %s: %v", doc.name, err)
		}
	}

	s.logger.Info(ctx, "[DONE] %s -> %s", doc.name, mdPath)
	report.Status = domain.StatusSuccess
	report.OutputPath = mdPath
	return report
}

// condense merges partial summaries through the pool so the final call
// gets the same retry treatment as every other remote call.
func (s *implSummarizer) condense(ctx context.Context, summaries []string) (string, error) {
	joined := strings.Join(summaries, "\n\n---\n\n")
	prompt := fmt.Sprintf(condensePrompt, s.opts.TargetLength, joined)

	outcomes := s.newPool().Run(ctx, []pool.Task{{
		Index: 0,
		Call: func(ctx context.Context) (string, error) {
			return s.generate(ctx, s.opts.Model, prompt)
		},
	}})

	out := outcomes[0]
	return out.Value, out.Err
}

func (s *implSummarizer) newPool() *pool.Pool {
	popts := []pool.Option{pool.WithHooks(s.hooks)}
	if s.opts.RetryBase > 0 {
		popts = append(popts, pool.WithBaseDelay(s.opts.RetryBase))
	}
	return pool.New(s.opts.MaxWorkers, s.opts.MaxRetries, popts...)
}

func (s *implSummarizer) discoverTranscripts(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.Name() == "report.txt" {
			continue
		}
		if strings.ToLower(filepath.Ext(e.Name())) == ".txt" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
