package llm

import (
	"regexp"
	"strings"
)

var (
	boldPattern    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern  = regexp.MustCompile(`\*([^*\n]+)\*`)
	bulletPattern  = regexp.MustCompile(`(?m)^(\s*)\* `)
	headingPattern = regexp.MustCompile(`(?m)^#{1,3} `)
)

// CleanMarkdown strips the markdown the model tends to emit despite being
// asked for plain text: bold and italic markers are removed, "* " bullets
// become "• " and level 1-3 heading markers are dropped.
func CleanMarkdown(text string) string {
	text = boldPattern.ReplaceAllString(text, "$1")
	// Bullets first so "* item" is not read as the start of an italic span.
	text = bulletPattern.ReplaceAllString(text, "$1• ")
	text = italicPattern.ReplaceAllString(text, "$1")
	text = headingPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
