package splitter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngthtai/transcript-flow/internal/domain"
	"github.com/ngthtai/transcript-flow/internal/logger"
)

// fakeExecutor records invocations and plays back scripted responses.
type fakeExecutor struct {
	calls       [][]string
	probeOutput string
	failFFmpeg  bool
	missingBin  bool
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if name == "ffprobe" {
		return f.probeOutput, nil
	}
	if f.failFFmpeg {
		return "", errors.New("ffmpeg exited with code 1")
	}
	return "", nil
}

func (f *fakeExecutor) LookPath(name string) (string, error) {
	if f.missingBin {
		return "", errors.New("executable not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

func TestBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		total   time.Duration
		chunk   time.Duration
		overlap time.Duration
		want    []Span
	}{
		{
			name:    "65 minutes in 20-minute chunks with 20s overlap",
			total:   65 * time.Minute,
			chunk:   20 * time.Minute,
			overlap: 20 * time.Second,
			want: []Span{
				{Start: 0, Span: 20 * time.Minute},
				{Start: 19*time.Minute + 40*time.Second, Span: 20*time.Minute + 20*time.Second},
				{Start: 39*time.Minute + 40*time.Second, Span: 20*time.Minute + 20*time.Second},
				{Start: 59*time.Minute + 40*time.Second, Span: 5*time.Minute + 20*time.Second},
			},
		},
		{
			name:    "source shorter than one chunk",
			total:   7 * time.Minute,
			chunk:   20 * time.Minute,
			overlap: 20 * time.Second,
			want:    []Span{{Start: 0, Span: 7 * time.Minute}},
		},
		{
			name:    "exact multiple produces no empty trailing chunk",
			total:   40 * time.Minute,
			chunk:   20 * time.Minute,
			overlap: 20 * time.Second,
			want: []Span{
				{Start: 0, Span: 20 * time.Minute},
				{Start: 19*time.Minute + 40*time.Second, Span: 20*time.Minute + 20*time.Second},
			},
		},
		{
			name:  "zero total",
			total: 0,
			chunk: 20 * time.Minute,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Boundaries(tt.total, tt.chunk, tt.overlap)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBoundariesStepInvariant(t *testing.T) {
	// Successive starts differ by exactly chunk - overlap, and the spans
	// cover the source without gaps.
	total := 137 * time.Minute
	chunk := 15 * time.Minute
	overlap := 30 * time.Second

	spans := Boundaries(total, chunk, overlap)
	require.NotEmpty(t, spans)

	for i := 1; i < len(spans); i++ {
		assert.Equal(t, chunk-overlap, spans[i].Start-spans[i-1].Start, "step between chunk %d and %d", i-1, i)
		assert.LessOrEqual(t, spans[i].Start, spans[i-1].Start+spans[i-1].Span, "no gap before chunk %d", i)
	}

	last := spans[len(spans)-1]
	assert.Equal(t, total, last.Start+last.Span)
	assert.Equal(t, time.Duration(0), spans[0].Start)
}

func TestSplit(t *testing.T) {
	exec := &fakeExecutor{probeOutput: "3900.000000\n"} // 65 minutes
	s := New(Options{
		ChunkDuration: 20 * time.Minute,
		Overlap:       20 * time.Second,
	}, exec, logger.New("error"))

	workDir := t.TempDir()
	chunks, err := s.Split(context.Background(), "/audio/lecture.mp3", workDir)
	require.NoError(t, err)
	require.Len(t, chunks, 4)

	// One ffprobe call plus one ffmpeg call per chunk.
	require.Len(t, exec.calls, 5)
	assert.Equal(t, "ffprobe", exec.calls[0][0])

	second := exec.calls[2]
	assert.Equal(t, "ffmpeg", second[0])
	joined := strings.Join(second, " ")
	assert.Contains(t, joined, "-ss 1180.000")
	assert.Contains(t, joined, "-t 1220.000")
	assert.Contains(t, joined, "/audio/lecture.mp3")

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, "lecture", c.SourceName)
		assert.Equal(t, filepath.Join(workDir, fmt.Sprintf("lecture_%04d.mp3", i)), c.Path)
	}
	assert.Equal(t, time.Duration(0), chunks[0].Overlap)
	assert.Equal(t, 20*time.Second, chunks[1].Overlap)
}

func TestSplitFFmpegFailure(t *testing.T) {
	exec := &fakeExecutor{probeOutput: "600.0", failFFmpeg: true}
	s := New(Options{ChunkDuration: 5 * time.Minute, Overlap: 10 * time.Second}, exec, logger.New("error"))

	_, err := s.Split(context.Background(), "/audio/talk.wav", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, domain.SPLIT_FAILED, domain.CodeOf(err))
}

func TestSplitMissingBinary(t *testing.T) {
	exec := &fakeExecutor{missingBin: true}
	s := New(Options{ChunkDuration: 5 * time.Minute}, exec, logger.New("error"))

	_, err := s.Split(context.Background(), "/audio/talk.wav", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, domain.SPLIT_FAILED, domain.CodeOf(err))
}
