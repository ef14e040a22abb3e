package proofmark

import (
	"fmt"
	"strings"
)

// Mode selects which reading of the markup survives resolution.
type Mode int8

const (
	// Accept keeps ==added== text and drops ~~removed~~ text.
	Accept Mode = iota
	// Reject keeps ~~removed~~ text and drops ==added== text.
	Reject
)

func (m Mode) String() string {
	if m == Reject {
		return "reject"
	}
	return "accept"
}

// ParseMode parses "accept" or "reject".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept":
		return Accept, nil
	case "reject":
		return Reject, nil
	}
	return Accept, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) keeps(k Kind) bool {
	if m == Accept {
		return k == Added
	}
	return k == Removed
}

// Resolve strips every span in text down to the reading selected by mode.
// Text without markup is returned unchanged.
func Resolve(text string, mode Mode) string {
	out, _ := resolve(text, mode, 0, nil)
	return out
}

// ResolveCursor is Resolve for a region holding a cursor. It also returns the
// cursor moved back by the number of bytes removed before it, never below 0.
func ResolveCursor(text string, mode Mode, cursor int) (string, int) {
	return resolve(text, mode, cursor, nil)
}

// ResolveSpan resolves only span, which must have been found in text.
func ResolveSpan(text string, span Span, mode Mode) string {
	out, _ := resolve(text, mode, 0, func(sp Span) bool {
		return sp.Start == span.Start
	})
	return out
}

// resolve does the work for the exported resolvers. Spans for which match
// returns false are copied through untouched.
//
// Dropping a span that sat between two spaces would leave a double space, so
// the first space after a dropped span is skipped when the output already
// ends in one. A double space with nothing but blanks after it on the line is
// kept: some formats use trailing double spaces as a line break.
func resolve(text string, mode Mode, cursor int, match func(Span) bool) (string, int) {
	var sb strings.Builder
	sb.Grow(len(text))

	var last byte
	seam := false
	removed := 0

	before := func(start, end int) int {
		if cursor <= start {
			return 0
		}
		if cursor < end {
			return cursor - start
		}
		return end - start
	}

	emit := func(s string, at int) {
		if s == "" {
			return
		}
		if seam {
			seam = false
			if s[0] == ' ' && last == ' ' && !blankToEOL(text, at+1) {
				removed += before(at, at+1)
				s = s[1:]
				if s == "" {
					return
				}
			}
		}
		sb.WriteString(s)
		last = s[len(s)-1]
	}

	pos := 0
	for sp := range Spans(text) {
		if match != nil && !match(sp) {
			continue
		}

		emit(text[pos:sp.Start], pos)
		if mode.keeps(sp.Kind) {
			removed += before(sp.Start, sp.InnerStart()) + before(sp.InnerEnd(), sp.End)
			emit(sp.Inner, sp.InnerStart())
		} else {
			removed += before(sp.Start, sp.End)
			seam = true
		}
		pos = sp.End
	}
	emit(text[pos:], pos)

	newCursor := cursor - removed
	if newCursor < 0 {
		newCursor = 0
	}
	return sb.String(), newCursor
}

func blankToEOL(text string, i int) bool {
	for ; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t':
		case '\n', '\r':
			return true
		default:
			return false
		}
	}
	return true
}
