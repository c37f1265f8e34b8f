package summarizer

import (
	"context"
	"sync"
	"time"

	"github.com/ngthtai/transcript-flow/internal/domain"
	"github.com/ngthtai/transcript-flow/internal/logger"
	"github.com/ngthtai/transcript-flow/pkg/pool"
)

// Options tunes the summarization stage.
type Options struct {
	Model         string
	APIKeys       []string
	MaxWorkers    int
	MaxRetries    int
	RetryBase     time.Duration
	TargetLength  int
	MaxInputChars int
	ExportDocx    bool
}

// generateFunc performs one remote text-generation call.
type generateFunc func(ctx context.Context, model, prompt string) (string, error)

type implSummarizer struct {
	opts     Options
	logger   logger.Logger
	hooks    pool.Hooks
	generate generateFunc

	mu         sync.Mutex
	currentKey int
}

// New creates a Summarizer that rotates through the supplied API keys on
// quota errors. hooks are forwarded to the worker pool for observability.
// Having no keys at all is a configuration fault, caught before any
// transcript is read.
func New(opts Options, log logger.Logger, hooks pool.Hooks) (Summarizer, error) {
	if len(opts.APIKeys) == 0 {
		return nil, domain.NewError(domain.CONFIG_ERROR, "no summarization API keys configured", nil)
	}

	s := &implSummarizer{
		opts:   opts,
		logger: log,
		hooks:  hooks,
	}
	s.generate = s.callGemini
	return s, nil
}

// NewForTests creates a Summarizer with an injectable remote call.
func NewForTests(opts Options, log logger.Logger, generate generateFunc) Summarizer {
	return &implSummarizer{
		opts:     opts,
		logger:   log,
		generate: generate,
	}
}
