package proofmark

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// tokenize splits s into UAX #29 word segments: words, punctuation and
// whitespace runs. Line breaks are always tokens of their own.
//
// In the default mode a horizontal whitespace run is glued to the token before
// it, so "The cat" is ["The ", "cat"]. With spaceTokens the run stays separate:
// ["The", " ", "cat"].
func tokenize(s string, spaceTokens bool) []string {
	var toks []string

	iter := words.FromString(s)
	for iter.Next() {
		tok := iter.Value()
		if n := len(toks); n > 0 && isHorizontalSpace(tok) {
			prev := toks[n-1]
			// Tabs come out one segment each; keep runs whole in either mode.
			if isHorizontalSpace(prev) || (!spaceTokens && !isBlank(prev)) {
				toks[n-1] = prev + tok
				continue
			}
		}
		toks = append(toks, tok)
	}

	return toks
}

func isHorizontalSpace(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\v' || r == '\f' || !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
