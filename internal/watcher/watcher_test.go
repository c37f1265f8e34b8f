package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngthtai/transcript-flow/internal/logger"
)

func TestIsAudioFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/in/lecture.mp3", true},
		{"/in/Talk.M4A", true},
		{"/in/raw.wav", true},
		{"/in/video.mp4", false},
		{"/in/notes.txt", false},
		{"/in/noext", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isAudioFile(tt.path), tt.path)
	}
}

func TestWatcherDispatchesNewAudio(t *testing.T) {
	oldDelay := settleDelay
	settleDelay = 10 * time.Millisecond
	defer func() { settleDelay = oldDelay }()

	dir := t.TempDir()

	var mu sync.Mutex
	var handled []string
	done := make(chan struct{})
	handler := func(ctx context.Context, path string) error {
		mu.Lock()
		handled = append(handled, filepath.Base(path))
		mu.Unlock()
		close(done)
		return nil
	}

	w, err := New(dir, handler, logger.New("error"), 2)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	// Give the watch loop a moment to come up before creating files.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lecture.mp3"), []byte("x"), 0644))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"lecture.mp3"}, handled)
}
