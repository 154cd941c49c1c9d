package docparse

import "strings"

// NormalizeLines splits raw text into trimmed, non-empty lines in document
// order. Every index used by the extraction heuristics refers to positions
// in this sequence.
func NormalizeLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
