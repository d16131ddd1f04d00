package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExplain(t *testing.T) {
	keywords := DefaultKeywords()

	testcases := []struct {
		Name     string
		Text     string
		Expected string
	}{
		{
			Name:     "Single keyword",
			Text:     "you are stupid",
			Expected: "you are **stupid**",
		},
		{
			Name:     "Case insensitive",
			Text:     "I HATE mondays",
			Expected: "I **HATE** mondays",
		},
		{
			Name:     "Punctuation kept",
			Text:     "what an idiot!",
			Expected: "what an **idiot!**",
		},
		{
			Name:     "No keywords",
			Text:     "have a nice day",
			Expected: "have a nice day",
		},
		{
			Name:     "Substring is not a match",
			Text:     "hateful killer",
			Expected: "hateful killer",
		},
		{
			Name:     "Multiple keywords",
			Text:     "dumb and ugly trash",
			Expected: "**dumb** and **ugly** **trash**",
		},
		{
			Name:     "Empty text",
			Text:     "",
			Expected: "",
		},
	}

	for _, testcase := range testcases {
		t.Run(testcase.Name, func(t *testing.T) {
			require.Equal(t, testcase.Expected, Explain(testcase.Text, keywords))
		})
	}
}

func TestExplainNoKeywords(t *testing.T) {
	require.Equal(t, "anything goes", Explain("anything goes", nil))
}
