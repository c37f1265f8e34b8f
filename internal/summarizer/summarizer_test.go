package summarizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngthtai/transcript-flow/internal/domain"
	"github.com/ngthtai/transcript-flow/internal/logger"
	"github.com/ngthtai/transcript-flow/pkg/pool"
)

func testOptions() Options {
	return Options{
		Model:         "test-model",
		MaxWorkers:    2,
		MaxRetries:    2,
		RetryBase:     time.Millisecond,
		TargetLength:  500,
		MaxInputChars: 100000,
	}
}

func writeTranscript(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSplitInput(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     int
	}{
		{"fits in one part", "short text", 100, 1},
		{"splits at line boundary", "aaaa\nbbbb\ncccc", 9, 2},
		{"oversized single line is cut", strings.Repeat("x", 25), 10, 3},
		{"zero limit disables splitting", strings.Repeat("x", 500), 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := splitInput(tt.text, tt.maxChars)
			require.Len(t, parts, tt.want)
			if tt.maxChars > 0 {
				for _, p := range parts {
					assert.LessOrEqual(t, len([]rune(p)), tt.maxChars)
				}
			}
			// No content may be lost.
			joined := strings.Join(parts, "\n")
			assert.Equal(t,
				strings.Join(strings.Fields(tt.text), ""),
				strings.Join(strings.Fields(joined), ""))
		})
	}
}

func TestSummarizeAll(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	writeTranscript(t, srcDir, "lecture.txt", "a transcript about distributed systems")
	writeTranscript(t, srcDir, "interview.txt", "a transcript about careers")

	var calls atomic.Int32
	s := NewForTests(testOptions(), logger.New("error"), func(ctx context.Context, model, prompt string) (string, error) {
		calls.Add(1)
		assert.Equal(t, "test-model", model)
		assert.Contains(t, prompt, "transcript about")
		return "## Summary\n\ngenerated text", nil
	})

	reports, err := s.SummarizeAll(context.Background(), srcDir, destDir)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, int32(2), calls.Load())

	for _, r := range reports {
		assert.Equal(t, domain.StatusSuccess, r.Status)
		data, err := os.ReadFile(r.OutputPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "generated text")
	}
}

func TestSummarizeAllRetriesRateLimit(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	writeTranscript(t, srcDir, "lecture.txt", "some transcript content")

	var calls atomic.Int32
	s := NewForTests(testOptions(), logger.New("error"), func(ctx context.Context, model, prompt string) (string, error) {
		if calls.Add(1) == 1 {
			return "", domain.NewError(domain.RATE_LIMITED, "quota", nil)
		}
		return "eventual summary", nil
	})

	reports, err := s.SummarizeAll(context.Background(), srcDir, destDir)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, domain.StatusSuccess, reports[0].Status)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSummarizeAllSkipsFailedDocument(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	writeTranscript(t, srcDir, "broken.txt", "transcript one")
	writeTranscript(t, srcDir, "healthy.txt", "transcript two")

	s := NewForTests(testOptions(), logger.New("error"), func(ctx context.Context, model, prompt string) (string, error) {
		if strings.Contains(prompt, "transcript one") {
			return "", domain.NewError(domain.AUTH_ERROR, "bad key", nil)
		}
		return "fine summary", nil
	})

	reports, err := s.SummarizeAll(context.Background(), srcDir, destDir)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	byName := map[string]domain.SourceReport{}
	for _, r := range reports {
		byName[r.Source] = r
	}

	assert.Equal(t, domain.StatusFailed, byName["broken.txt"].Status)
	assert.Equal(t, string(domain.AUTH_ERROR), byName["broken.txt"].Reason)
	assert.Equal(t, domain.StatusSuccess, byName["healthy.txt"].Status)

	_, err = os.Stat(filepath.Join(destDir, "broken.md"))
	assert.True(t, os.IsNotExist(err), "failed document must not produce a summary file")
}

func TestSummarizeAllCondensesOversizedTranscript(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()

	opts := testOptions()
	opts.MaxInputChars = 40
	writeTranscript(t, srcDir, "long.txt", "first block of text\nsecond block of text\nthird block of text")

	var prompts []string
	s := NewForTests(opts, logger.New("error"), func(ctx context.Context, model, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		if strings.Contains(prompt, "partial summaries of consecutive parts") {
			return "condensed article", nil
		}
		return "partial", nil
	})

	reports, err := s.SummarizeAll(context.Background(), srcDir, destDir)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, domain.StatusSuccess, reports[0].Status)
	assert.Greater(t, reports[0].Chunks, 1)

	data, err := os.ReadFile(reports[0].OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "condensed article")

	// Part calls plus exactly one condense call.
	condense := 0
	for _, p := range prompts {
		if strings.Contains(p, "partial summaries of consecutive parts") {
			condense++
		}
	}
	assert.Equal(t, 1, condense)
}

func TestSummarizeAllEmptyDir(t *testing.T) {
	s := NewForTests(testOptions(), logger.New("error"), nil)

	reports, err := s.SummarizeAll(context.Background(), t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestClassifyGenerateError(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want domain.ErrorCode
	}{
		{"quota", "googleapi: Error 429: RESOURCE_EXHAUSTED", domain.RATE_LIMITED},
		{"auth", "googleapi: Error 401: API key not valid", domain.AUTH_ERROR},
		{"invalid", "googleapi: Error 400: INVALID_ARGUMENT", domain.INVALID_INPUT},
		{"other", "connection refused", domain.SERVER_ERROR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyGenerateError(errorString(tt.msg))
			assert.Equal(t, tt.want, domain.CodeOf(err))
		})
	}
}

type errorString string

func (e errorString) Error() string { return string(e) }

func TestKeyRotation(t *testing.T) {
	opts := testOptions()
	opts.APIKeys = []string{"key-a", "key-b", "key-c"}

	sum, err := New(opts, logger.New("error"), pool.Hooks{})
	require.NoError(t, err)
	s := sum.(*implSummarizer)

	assert.Equal(t, "key-a", s.pickKey())
	s.rotateKey()
	assert.Equal(t, "key-b", s.pickKey())
	s.rotateKey()
	s.rotateKey()
	assert.Equal(t, "key-a", s.pickKey())
}

func TestNewRequiresAPIKeys(t *testing.T) {
	_, err := New(testOptions(), logger.New("error"), pool.Hooks{})
	require.Error(t, err)
	assert.Equal(t, domain.CONFIG_ERROR, domain.CodeOf(err))

	opts := testOptions()
	opts.APIKeys = []string{"key-a"}
	s, err := New(opts, logger.New("error"), pool.Hooks{})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
