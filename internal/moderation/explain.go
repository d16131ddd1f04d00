package moderation

import (
	"strings"
	"unicode"
)

// Explain marks the known toxic keywords in the text for display.
// Matching is case-insensitive and per whole word, surrounding
// punctuation is ignored for the lookup but kept in the output.
// The annotation does not affect the decision, only the reply text.
func Explain(text string, keywords []string) string {
	if len(keywords) == 0 {
		return text
	}

	lookup := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		lookup[strings.ToLower(keyword)] = struct{}{}
	}

	words := strings.Fields(text)
	highlighted := make([]string, 0, len(words))

	for _, word := range words {
		bare := strings.TrimFunc(word, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})

		if _, ok := lookup[strings.ToLower(bare)]; ok && bare != "" {
			highlighted = append(highlighted, "**"+word+"**")
		} else {
			highlighted = append(highlighted, word)
		}
	}

	return strings.Join(highlighted, " ")
}
