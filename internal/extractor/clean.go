package extractor

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// \p{L}\p{N}_ rather than \w: word characters must cover accented
	// letters, which Go's \w does not.
	specialChars = regexp.MustCompile(`[^\p{L}\p{N}_\s.!?,;:\-()]`)
	newlineRun   = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes extracted text before chunking: whitespace runs collapse
// to single spaces, characters outside word characters and a small
// punctuation allow-list are stripped, 3+ consecutive newlines collapse to
// two, and the result is trimmed.
func Clean(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = specialChars.ReplaceAllString(text, "")
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
