package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ngthtai/transcript-flow/internal/domain"
)

// FormatReport renders one line per source file, e.g.
//
//	lecture.mp3: partial (1 gap at index 2)
func FormatReport(reports []domain.SourceReport) string {
	var b strings.Builder
	for _, r := range reports {
		b.WriteString(formatLine(r))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatLine(r domain.SourceReport) string {
	switch r.Status {
	case domain.StatusSuccess:
		return fmt.Sprintf("%s: success (%d chunks)", r.Source, r.Chunks)
	case domain.StatusPartial:
		return fmt.Sprintf("%s: partial (%s)", r.Source, describeGaps(r.GapIndexes))
	default:
		if r.Reason != "" {
			return fmt.Sprintf("%s: failed (%s)", r.Source, r.Reason)
		}
		return fmt.Sprintf("%s: failed", r.Source)
	}
}

func describeGaps(indexes []int) string {
	if len(indexes) == 1 {
		return fmt.Sprintf("1 gap at index %d", indexes[0])
	}
	strs := make([]string, len(indexes))
	for i, idx := range indexes {
		strs[i] = strconv.Itoa(idx)
	}
	return fmt.Sprintf("%d gaps at indexes %s", len(indexes), strings.Join(strs, ", "))
}

// ExitCode maps a run's reports to the process exit status. Partial
// results exit clean; a fully failed source does not.
func ExitCode(reports []domain.SourceReport) int {
	for _, r := range reports {
		if r.Status == domain.StatusFailed {
			return 1
		}
	}
	return 0
}
