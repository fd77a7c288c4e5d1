package overlay

import "strings"

// WrapText greedily wraps text into lines of at most col characters,
// breaking on whitespace. Words longer than col get a line of their own.
// Existing line breaks are treated as plain whitespace; the caller decides
// layout, not the source text.
func WrapText(text string, col int) []string {
	if col <= 0 {
		col = 40
	}

	var lines []string
	var current strings.Builder

	for _, word := range strings.Fields(text) {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if current.Len()+1+len(word) <= col {
			current.WriteByte(' ')
			current.WriteString(word)
			continue
		}
		lines = append(lines, current.String())
		current.Reset()
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
