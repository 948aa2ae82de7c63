package webpage

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// cleanText removes any residual markup from an HTML fragment and collapses
// whitespace runs and blank lines into single separators. Entities the
// sanitizer leaves escaped are decoded back to plain text.
func cleanText(fragment string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(fragment))

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

// truncateRunes caps s at limit runes without splitting a multi-byte
// character.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
