package timeline

import "strings"

// WrapLines splits text into display lines at most maxChars characters wide.
// Existing newlines are honored as hard breaks, blank lines are dropped, and
// words are never split; a single word wider than maxChars is emitted whole
// on its own line. Width is measured in runes so emoji count as one.
func WrapLines(text string, maxChars int) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		segment := strings.TrimSpace(raw)
		if segment == "" {
			continue
		}
		if maxChars <= 0 {
			lines = append(lines, segment)
			continue
		}
		lines = append(lines, wrapSegment(segment, maxChars)...)
	}
	return lines
}

func wrapSegment(segment string, maxChars int) []string {
	var (
		lines   []string
		current []string
		width   int
	)
	for _, word := range strings.Fields(segment) {
		wordWidth := len([]rune(word))
		switch {
		case width == 0:
			current = append(current, word)
			width = wordWidth
		case width+1+wordWidth <= maxChars:
			current = append(current, word)
			width += 1 + wordWidth
		default:
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
			width = wordWidth
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	return lines
}
