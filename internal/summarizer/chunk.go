package summarizer

import "strings"

// splitInput splits a transcript into parts of at most maxChars runes,
// preferring line boundaries. Parts do not overlap: a summary does not
// need the boundary redundancy that audio chunks do.
func splitInput(text string, maxChars int) []string {
	if maxChars <= 0 || len([]rune(text)) <= maxChars {
		return []string{text}
	}

	var parts []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			parts = append(parts, strings.Join(current, "\n"))
			current = current[:0]
			currentLen = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		runes := []rune(line)

		// A single line longer than the limit is cut mid-line.
		for len(runes) > maxChars {
			flush()
			parts = append(parts, string(runes[:maxChars]))
			runes = runes[maxChars:]
		}

		lineLen := len(runes)
		if currentLen > 0 && currentLen+1+lineLen > maxChars {
			flush()
		}
		current = append(current, string(runes))
		if currentLen > 0 {
			currentLen++ // joining newline
		}
		currentLen += lineLen
	}

	flush()
	return parts
}
