package assessment

import (
	"strings"

	"github.com/jonathan/career-counselor/internal/types"
)

// MatchOptions returns the options of q mentioned in text. An option is
// mentioned when text contains its first word, ignoring case. Single-choice
// questions yield at most the first match; multiple-choice questions yield
// every match in catalog order, capped at MaxSelections.
func MatchOptions(q types.Question, text string) []string {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var matches []string
	for _, option := range q.Options {
		word := firstWord(option)
		if word == "" || !strings.Contains(text, word) {
			continue
		}
		matches = append(matches, option)
		if !q.Multiple() {
			break
		}
		if q.MaxSelections > 0 && len(matches) == q.MaxSelections {
			break
		}
	}
	return matches
}

func firstWord(option string) string {
	word, _, _ := strings.Cut(strings.ToLower(option), " ")
	return word
}
