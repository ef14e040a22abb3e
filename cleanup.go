package proofmark

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Callout is inserted before the untouched tail of a truncated response.
const Callout = "\n\n" +
	"> [!INFO] End of proofreading\n" +
	"> The input text was too long. Text after this point is unchanged." +
	"\n\n"

// keepTail handles a response cut off by the output limit. The model never saw
// the end of the old text, so the diff ends in a removal of everything it did
// not reach, possibly followed by the old text's trailing whitespace. That
// removal becomes Unchanged with the callout in front of it; additions that
// trailed it move before the callout.
func keepTail(script Script) Script {
	k := -1
	for i := len(script) - 1; i >= 0; i-- {
		if script[i].Kind == Removed {
			k = i
			break
		}
		if script[i].Kind == Unchanged && !isBlank(script[i].Text) {
			break
		}
	}
	if k < 0 {
		return script
	}

	out := make(Script, 0, len(script)+1)
	for _, p := range script[:k] {
		out = out.add(p.Kind, p.Text)
	}
	tail := script[k].Text
	for _, p := range script[k+1:] {
		if p.Kind == Added {
			out = out.add(Added, p.Text)
		} else {
			tail += p.Text
		}
	}
	return out.add(Unchanged, Callout).add(Unchanged, tail)
}

// restorePunctuation undoes smart punctuation the model swapped in for plain
// characters: curly quotes back to straight ones and an en dash between digits
// back to a hyphen. A replacement that becomes identical to what it replaced
// is no change at all.
func restorePunctuation(script Script) Script {
	out := make(Script, 0, len(script))

	for i := 0; i < len(script); i++ {
		p := script[i]
		if p.Kind != Removed || i+1 >= len(script) || script[i+1].Kind != Added {
			out = out.add(p.Kind, p.Text)
			continue
		}

		prev, next := newReadingEdges(script, i, i+1)
		added := plainPunctuation(script[i+1].Text, prev, next)
		if added == p.Text {
			out = out.add(Unchanged, p.Text)
		} else {
			out = out.add(Removed, p.Text).add(Added, added)
		}
		i++
	}

	return out
}

// newReadingEdges returns the runes of the new reading just before part i and
// just after part j.
func newReadingEdges(script Script, i, j int) (rune, rune) {
	var prev, next rune
	for k := i - 1; k >= 0; k-- {
		if script[k].Kind != Removed && script[k].Text != "" {
			prev, _ = utf8.DecodeLastRuneInString(script[k].Text)
			break
		}
	}
	for k := j + 1; k < len(script); k++ {
		if script[k].Kind != Removed && script[k].Text != "" {
			next, _ = utf8.DecodeRuneInString(script[k].Text)
			break
		}
	}
	return prev, next
}

func plainPunctuation(s string, prev, next rune) string {
	rs := []rune(s)
	for i, r := range rs {
		switch r {
		case '“', '”', '„', '‟':
			rs[i] = '"'
		case '‘', '’', '‚', '‛':
			rs[i] = '\''
		case '–':
			left, right := prev, next
			if i > 0 {
				left = rs[i-1]
			}
			if i+1 < len(rs) {
				right = rs[i+1]
			}
			if unicode.IsDigit(left) && unicode.IsDigit(right) {
				rs[i] = '-'
			}
		}
	}
	return string(rs)
}

// lineSafe makes every change fit on one line and drops changes that are only
// whitespace, keeping the old whitespace in their place.
//
// A removal keeps its line breaks as plain text between per-line spans. Each
// line break run inside an addition collapses to one space.
func lineSafe(script Script) Script {
	out := make(Script, 0, len(script))

	for _, p := range script {
		switch {
		case p.Kind == Unchanged:
			out = out.add(Unchanged, p.Text)
		case isBlank(p.Text):
			if p.Kind == Removed {
				out = out.add(Unchanged, p.Text)
			}
		case p.Kind == Removed:
			for _, piece := range splitLineBreaks(p.Text) {
				if isBlank(piece) {
					out = out.add(Unchanged, piece)
				} else {
					out = out.add(Removed, piece)
				}
			}
		default:
			var sb strings.Builder
			for _, piece := range splitLineBreaks(p.Text) {
				if isBlank(piece) && strings.ContainsAny(piece, "\r\n") {
					sb.WriteByte(' ')
				} else {
					sb.WriteString(piece)
				}
			}
			out = out.add(Added, sb.String())
		}
	}

	return out
}

// splitLineBreaks cuts s into alternating pieces of text and whitespace runs
// holding a line break; the whitespace around each break joins its piece.
func splitLineBreaks(s string) []string {
	var pieces []string
	start := 0

	for i := 0; i < len(s); {
		if s[i] != '\n' && s[i] != '\r' {
			i++
			continue
		}
		lo := i
		for lo > start && (s[lo-1] == ' ' || s[lo-1] == '\t') {
			lo--
		}
		hi := i
		for hi < len(s) && isSpaceByte(s[hi]) {
			hi++
		}
		if lo > start {
			pieces = append(pieces, s[start:lo])
		}
		pieces = append(pieces, s[lo:hi])
		start, i = hi, hi
	}
	if start < len(s) {
		pieces = append(pieces, s[start:])
	}

	return pieces
}

// shrinkSmallChanges narrows a one-word replacement that only adds or drops a
// character or two at one end ("cat" -> "cats"), or only changes case there
// ("the" -> "The"), to the characters that differ: "cat==s==".
func shrinkSmallChanges(script Script) Script {
	out := make(Script, 0, len(script))

	for i := 0; i < len(script); i++ {
		p := script[i]
		if p.Kind != Removed || i+1 >= len(script) || script[i+1].Kind != Added {
			out = out.add(p.Kind, p.Text)
			continue
		}

		r, a := p.Text, script[i+1].Text
		pre, rmid, amid, suf, ok := smallChange(r, a)
		if !ok {
			out = out.add(Removed, r).add(Added, a)
		} else {
			out = out.add(Unchanged, pre).add(Removed, rmid).add(Added, amid).add(Unchanged, suf)
		}
		i++
	}

	return out
}

func smallChange(r, a string) (pre, rmid, amid, suf string, ok bool) {
	if strings.ContainsAny(r+a, "=~") || strings.IndexFunc(r+a, unicode.IsSpace) >= 0 {
		return "", "", "", "", false
	}

	rr, ar := []rune(r), []rune(a)
	p := 0
	for p < len(rr) && p < len(ar) && rr[p] == ar[p] {
		p++
	}
	s := 0
	for s < len(rr)-p && s < len(ar)-p && rr[len(rr)-1-s] == ar[len(ar)-1-s] {
		s++
	}

	dr, da := len(rr)-p-s, len(ar)-p-s
	switch {
	case p+s == 0, p > 0 && s > 0:
		return "", "", "", "", false
	case dr > 2, da > 2:
		return "", "", "", "", false
	case dr > 0 && da > 0 && !strings.EqualFold(r, a):
		return "", "", "", "", false
	}

	return string(rr[:p]), string(rr[p : p+dr]), string(ar[p : p+da]), string(rr[p+dr:]), true
}
