// Package assembler joins transcript fragments back into one document.
// Fragments are ordered by chunk index regardless of completion order;
// failed or missing fragments become explicit gap markers, never silent
// holes.
package assembler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ngthtai/transcript-flow/internal/domain"
)

// Options tunes the boundary overlap trim. The trim is a best-effort
// heuristic: recognized text in the overlap region is rarely byte-equal
// between neighboring fragments.
type Options struct {
	// TrimOverlap enables duplicate removal at fragment joins.
	TrimOverlap bool
	// Window bounds, in runes, how far back and forward the trim looks.
	Window int
	// MinMatch is the shortest exact suffix/prefix match worth trimming.
	MinMatch int
	// SimhashThreshold is the maximum hamming distance for the fuzzy
	// fallback when no exact match exists. Negative disables the fallback.
	SimhashThreshold int
}

// DefaultOptions returns the trim tuning used by the pipeline.
func DefaultOptions() Options {
	return Options{
		TrimOverlap:      true,
		Window:           400,
		MinMatch:         24,
		SimhashThreshold: 3,
	}
}

// Result is the assembled transcript plus the indexes that failed.
type Result struct {
	Text string
	Gaps []int
}

// GapMarker formats the placeholder written where a fragment is missing.
func GapMarker(index int) string {
	return fmt.Sprintf("[transcription failed: segment %d]", index)
}

// Assemble joins fragments for one source in ascending index order. total
// is the number of chunks the source was split into; indexes absent from
// fragments are gaps too. Fragment text is whitespace-normalized before
// joining.
func Assemble(fragments []domain.Fragment, total int, opts Options) Result {
	byIndex := make(map[int]domain.Fragment, len(fragments))
	for _, f := range fragments {
		byIndex[f.Index] = f
	}

	var parts []string
	var gaps []int

	// prevText is the last successfully appended fragment. Trimming never
	// reaches across a gap marker: the gap already severs continuity.
	prevText := ""

	for i := 0; i < total; i++ {
		f, ok := byIndex[i]
		if !ok || f.Err != nil {
			gaps = append(gaps, i)
			parts = append(parts, GapMarker(i))
			prevText = ""
			continue
		}

		text := normalizeWhitespace(f.Text)
		if text == "" {
			prevText = ""
			continue
		}

		if opts.TrimOverlap && prevText != "" {
			text = trimOverlap(prevText, text, opts)
			if text == "" {
				continue
			}
		}

		parts = append(parts, text)
		prevText = text
	}

	sort.Ints(gaps)
	return Result{
		Text: strings.Join(parts, "\n"),
		Gaps: gaps,
	}
}

// normalizeWhitespace collapses whitespace runs into single spaces.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
