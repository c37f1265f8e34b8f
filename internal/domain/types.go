package domain

import "time"

// Chunk is one bounded-duration segment cut from a source file.
// Consecutive chunks of the same source overlap by Overlap so no audio
// is lost at a cut boundary.
type Chunk struct {
	SourceName string
	Index      int
	Start      time.Duration
	Span       time.Duration
	Overlap    time.Duration
	Path       string
}

// Fragment is the transcription result for one chunk. A non-nil Err means
// the chunk could not be transcribed and becomes a gap in the assembled
// transcript.
type Fragment struct {
	SourceName string
	Index      int
	Text       string
	Err        error
}

// SourceStatus is the per-file outcome of a pipeline run.
type SourceStatus string

const (
	StatusSuccess SourceStatus = "success"
	StatusPartial SourceStatus = "partial"
	StatusFailed  SourceStatus = "failed"
)

// SourceReport summarizes what happened to one source file.
type SourceReport struct {
	Source     string
	Status     SourceStatus
	Chunks     int
	GapIndexes []int
	Reason     string
	OutputPath string
}
