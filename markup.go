// Package proofmark turns a proofread revision of a text into inline
// suggestions that can be reviewed and reverted inside the text itself.
//
// A word-level diff of the old and revised text is rendered as markup:
// ==added== for insertions and ~~removed~~ for deletions. Spans never nest and
// never cross a line break, so the markup survives being stored in any plain
// text document. Spans can later be found again (FindNext, Spans) and resolved
// to either reading (Resolve): Accept takes the revision, Reject restores the
// original byte for byte.
package proofmark

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyInput        = errors.New("text is empty")
	ErrHasMarkup         = errors.New("text already has highlights or strikethroughs")
	ErrResponseHasMarkup = errors.New("revised text contains highlight or strikethrough markup")
	ErrUnrenderable      = errors.New("revision could not be rendered as markup")
)

// Validate checks that oldText can be proofread: it must hold more than
// whitespace and must not carry unresolved suggestions.
func Validate(oldText string) error {
	if strings.TrimSpace(oldText) == "" {
		return ErrEmptyInput
	}
	if HasMarkup(oldText) {
		return ErrHasMarkup
	}
	return nil
}

// Markup runs the whole pipeline on a pair of texts: validation, surrounding
// whitespace normalization, diff and encoding. A Result that is not Changed
// means there is nothing to suggest.
func Markup(oldText, newText string, o ...FuncOption) (Result, error) {
	if err := Validate(oldText); err != nil {
		return Result{}, err
	}
	if HasMarkup(newText) {
		return Result{}, ErrResponseHasMarkup
	}

	newText = MatchSurroundingWhitespace(oldText, newText)
	if newText == oldText {
		return Result{Text: oldText}, nil
	}

	res := Encode(Diff(oldText, newText, o...), o...)
	if res.Dropped > 0 {
		return Result{}, fmt.Errorf("%w: %d changes left out", ErrUnrenderable, res.Dropped)
	}
	if res.Text == oldText {
		res.ChangeCount = 0
	}
	return res, nil
}
