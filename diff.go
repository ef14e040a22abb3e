package proofmark

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Kind classifies a diff part or a markup span.
type Kind int8

const (
	Unchanged Kind = iota
	Added
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unchanged"
	}
}

// Part is one run of the edit script.
type Part struct {
	Kind Kind
	Text string
}

// Script is an ordered edit script from an old text to a new text.
//
// Invariants:
//   - concat(Text of parts that are not Added) == old text
//   - concat(Text of parts that are not Removed) == new text
type Script []Part

// Old returns the text the script transforms from.
func (s Script) Old() string {
	var sb strings.Builder
	for _, p := range s {
		if p.Kind != Added {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// New returns the text the script transforms to.
func (s Script) New() string {
	var sb strings.Builder
	for _, p := range s {
		if p.Kind != Removed {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// Changes returns the number of Added and Removed parts.
func (s Script) Changes() int {
	n := 0
	for _, p := range s {
		if p.Kind != Unchanged {
			n++
		}
	}
	return n
}

// add appends text as kind, merging with the last part when the kinds match.
// Empty text is dropped.
func (s Script) add(kind Kind, text string) Script {
	if text == "" {
		return s
	}
	if n := len(s); n > 0 && s[n-1].Kind == kind {
		s[n-1].Text += text
		return s
	}
	return append(s, Part{Kind: kind, Text: text})
}

// Diff computes a minimal word-level edit script turning oldText into newText.
//
// Identical texts yield a single Unchanged part. Either text may be empty.
//
// In the default mode words are matched without the whitespace glued to them,
// so a word whose following whitespace changed is still the same word; only
// the whitespace shows up as replaced. WithSpaceTokens diffs whitespace runs as
// tokens of their own.
func Diff(oldText, newText string, o ...FuncOption) Script {
	cfg := newConfig(o)

	if oldText == newText {
		return Script{{Kind: Unchanged, Text: oldText}}
	}

	oldToks := tokenize(oldText, cfg.spaceTokens)
	newToks := tokenize(newText, cfg.spaceTokens)

	key := func(tok string) string { return tok }
	if !cfg.spaceTokens {
		key = wordKey
	}

	runes1, runes2, ok := tokensToRunes(oldToks, newToks, key)
	if !ok {
		// Vocabulary too large to munge: replace wholesale.
		return Script{}.add(Removed, oldText).add(Added, newText)
	}

	dmp := diffmatchpatch.New()
	// No deadline: the half-match speedup it enables gives up minimality.
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(runes1, runes2, false)

	script := make(Script, 0, len(diffs))
	var oi, ni int
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for k := 0; k < n; k++ {
				script = addEqual(script, oldToks[oi+k], newToks[ni+k])
			}
			oi += n
			ni += n
		case diffmatchpatch.DiffDelete:
			script = script.add(Removed, strings.Join(oldToks[oi:oi+n], ""))
			oi += n
		case diffmatchpatch.DiffInsert:
			script = script.add(Added, strings.Join(newToks[ni:ni+n], ""))
			ni += n
		}
	}

	return splitCommonSpace(script)
}

// addEqual appends a pair of matched tokens. Tokens that match on their key
// but differ in trailing whitespace keep the word unchanged and carry the
// whitespace as a replacement.
func addEqual(script Script, oldTok, newTok string) Script {
	if oldTok == newTok {
		return script.add(Unchanged, oldTok)
	}
	k := wordKey(oldTok)
	return script.add(Unchanged, k).add(Removed, oldTok[len(k):]).add(Added, newTok[len(k):])
}

// wordKey is the comparison key of a token in words mode.
func wordKey(tok string) string {
	if k := strings.TrimRightFunc(tok, unicode.IsSpace); k != "" {
		return k
	}
	return tok
}

// tokensToRunes maps each distinct token key to a rune so the token sequences
// can be diffed as rune strings. The surrogate block is skipped since those
// runes do not survive a round trip through a Go string.
func tokensToRunes(a, b []string, key func(string) string) ([]rune, []rune, bool) {
	ids := make(map[string]rune)

	munge := func(toks []string) ([]rune, bool) {
		out := make([]rune, 0, len(toks))
		for _, t := range toks {
			k := key(t)
			r, found := ids[k]
			if !found {
				r = indexToRune(len(ids))
				if r > utf8.MaxRune {
					return nil, false
				}
				ids[k] = r
			}
			out = append(out, r)
		}
		return out, true
	}

	r1, ok := munge(a)
	if !ok {
		return nil, nil, false
	}
	r2, ok := munge(b)
	if !ok {
		return nil, nil, false
	}
	return r1, r2, true
}

func indexToRune(i int) rune {
	r := rune(i)
	if r >= 0xD800 {
		r += 0x800
	}
	return r
}

// splitCommonSpace moves whitespace shared by the edges of a replacement out
// of the change: Removed "cat " + Added "dog " becomes Removed "cat" + Added
// "dog" + Unchanged " ".
func splitCommonSpace(script Script) Script {
	out := make(Script, 0, len(script))

	for i := 0; i < len(script); {
		if script[i].Kind == Unchanged {
			out = out.add(Unchanged, script[i].Text)
			i++
			continue
		}

		var del, ins strings.Builder
		for ; i < len(script) && script[i].Kind != Unchanged; i++ {
			if script[i].Kind == Removed {
				del.WriteString(script[i].Text)
			} else {
				ins.WriteString(script[i].Text)
			}
		}
		d, a := del.String(), ins.String()

		var pre, suf string
		if d != "" && a != "" {
			pre = commonSpacePrefix(d, a)
			d, a = d[len(pre):], a[len(pre):]
			suf = commonSpaceSuffix(d, a)
			d, a = d[:len(d)-len(suf)], a[:len(a)-len(suf)]
		}

		out = out.add(Unchanged, pre).add(Removed, d).add(Added, a).add(Unchanged, suf)
	}

	return out
}

func commonSpacePrefix(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] && isSpaceByte(a[n]) {
		n++
	}
	return a[:n]
}

func commonSpaceSuffix(a, b string) string {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] && isSpaceByte(a[len(a)-1-n]) {
		n++
	}
	return a[len(a)-n:]
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// MatchSurroundingWhitespace gives newText the leading and trailing whitespace
// of oldText. Model responses usually come back trimmed even when the input
// was not; without this every such request would diff a spurious edge change.
func MatchSurroundingWhitespace(oldText, newText string) string {
	rest := strings.TrimLeftFunc(oldText, unicode.IsSpace)
	lead := oldText[:len(oldText)-len(rest)]
	trail := rest[len(strings.TrimRightFunc(rest, unicode.IsSpace)):]

	return lead + strings.TrimFunc(newText, unicode.IsSpace) + trail
}
