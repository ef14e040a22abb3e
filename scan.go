package proofmark

import (
	"iter"
	"strings"
)

const (
	addDelim = "=="
	delDelim = "~~"
)

// Span is a markup span located in a text: ==added== or ~~removed~~.
// Offsets are byte offsets into the scanned text; End is exclusive and both
// delimiters are inside [Start, End).
type Span struct {
	Start int
	End   int
	Kind  Kind
	Inner string
}

// InnerStart is the offset of the first byte after the opening delimiter.
func (s Span) InnerStart() int { return s.Start + len(addDelim) }

// InnerEnd is the offset of the closing delimiter.
func (s Span) InnerEnd() int { return s.End - len(addDelim) }

// Contains reports whether offset is within the span, boundaries included.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset <= s.End
}

func delimKind(c byte) (Kind, bool) {
	switch c {
	case '=':
		return Added, true
	case '~':
		return Removed, true
	}
	return Unchanged, false
}

// delimAt reports whether a delimiter pair starts at text[i].
func delimAt(text string, i int) bool {
	if i+1 >= len(text) || text[i] != text[i+1] {
		return false
	}
	_, ok := delimKind(text[i])
	return ok
}

// nextSpan returns the first span starting at or after i.
//
// An opening delimiter is closed by the nearest same delimiter on the same
// line. Meeting the other delimiter first abandons the opener, and scanning
// restarts at that delimiter; spans never nest. When the closing run of '=' or
// '~' is longer than a pair, its last two characters close the span so an
// inner text may end in a single '=' or '~'.
func nextSpan(text string, i int) (Span, bool) {
	for i < len(text) {
		if !delimAt(text, i) {
			i++
			continue
		}

		open := text[i]
		j := i + 2
		restart := -1
		for j < len(text) && text[j] != '\n' {
			if !delimAt(text, j) {
				j++
				continue
			}
			if text[j] != open {
				restart = j
				break
			}

			k := j
			for k < len(text) && text[k] == open {
				k++
			}
			if k-2 == i+2 {
				// "====": nothing between the delimiters.
				restart = k
				break
			}

			kind, _ := delimKind(open)
			return Span{
				Start: i,
				End:   k,
				Kind:  kind,
				Inner: text[i+2 : k-2],
			}, true
		}

		if restart < 0 {
			// Unclosed on this line.
			restart = j
		}
		i = restart
	}

	return Span{}, false
}

// FindNext returns the span that contains from, boundaries included, or
// otherwise the first span after it. Scanning starts at the beginning of the
// line holding from since no span crosses a line break.
func FindNext(text string, from int) (Span, bool) {
	if from < 0 {
		from = 0
	}
	if from > len(text) {
		from = len(text)
	}

	i := strings.LastIndexByte(text[:from], '\n') + 1
	for {
		sp, ok := nextSpan(text, i)
		if !ok {
			return Span{}, false
		}
		if sp.End >= from {
			return sp, true
		}
		i = sp.End
	}
}

// Spans iterates over every span in text in order. Each range over the
// returned sequence rescans from the start.
func Spans(text string) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		for i := 0; ; {
			sp, ok := nextSpan(text, i)
			if !ok || !yield(sp) {
				return
			}
			i = sp.End
		}
	}
}

// CountSpans returns the number of spans in text.
func CountSpans(text string) int {
	n := 0
	for range Spans(text) {
		n++
	}
	return n
}

// HasMarkup reports whether text contains a delimiter sequence, balanced or
// not.
func HasMarkup(text string) bool {
	return strings.Contains(text, addDelim) || strings.Contains(text, delDelim)
}
