package proofmark

import "strings"

// Result is an edit script rendered as markup.
type Result struct {
	Text        string
	ChangeCount int  // spans in Text after every cleanup pass
	Overlength  bool // the revised text was cut off; Text carries the callout
	Dropped     int  // changes left out because no rendering of their line resolved back
}

// Changed reports whether Text holds any suggestion. A result without one must
// be reported as "nothing to change", never inserted.
func (r Result) Changed() bool {
	return r.ChangeCount > 0
}

// Encode renders script as ==added== and ~~removed~~ markup.
//
// Resolving the returned text with Reject yields the script's old text
// exactly (plus the callout when the overlength option is set). Resolving with
// Accept yields the new text, except for the whitespace, line break and
// punctuation changes the cleanup passes leave out.
func Encode(script Script, o ...FuncOption) Result {
	cfg := newConfig(o)

	s := append(Script(nil), script...)
	if cfg.overlength {
		s = keepTail(s)
	}
	if cfg.preservePunct {
		s = restorePunctuation(s)
	}
	s = lineSafe(s)
	s = shrinkSmallChanges(s)

	lines := splitLines(s)
	rendered := make([]renderedLine, len(lines))
	for i, line := range lines {
		rendered[i] = renderLine(line)
	}
	if cfg.preserveQuotes || cfg.preserveBlockquotes {
		protectZones(rendered, cfg.preserveQuotes, cfg.preserveBlockquotes)
	}

	var sb strings.Builder
	dropped := 0
	for _, l := range rendered {
		sb.WriteString(l.text)
		dropped += l.dropped
	}
	text := sb.String()

	return Result{
		Text:        text,
		ChangeCount: CountSpans(text),
		Overlength:  cfg.overlength,
		Dropped:     dropped,
	}
}

// splitLines cuts the script after every line break. Only Unchanged parts
// hold line breaks by now.
func splitLines(script Script) []Script {
	var lines []Script
	var cur Script

	for _, p := range script {
		if p.Kind != Unchanged {
			cur = append(cur, p)
			continue
		}
		text := p.Text
		for {
			i := strings.IndexByte(text, '\n')
			if i < 0 {
				break
			}
			cur = cur.add(Unchanged, text[:i+1])
			lines = append(lines, cur)
			cur = nil
			text = text[i+1:]
		}
		cur = cur.add(Unchanged, text)
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}

	return lines
}

// renderedLine is one line of markup and the script it was rendered from.
type renderedLine struct {
	text    string
	script  Script
	extents []extent // rendered byte range of each part of script
	dropped int
}

type extent struct {
	start, end int
}

// Rendering levels for one span.
const (
	raw  = iota // delimiters around the text as is
	moved       // edge blanks moved outside the delimiters
	tidy        // moved, dropping an added span's edge blank that would double one beside it
)

// renderLine renders one line of the script.
//
// A rendering is only used when it resolves back to the line: Reject must give
// the old reading exactly and Accept the words of the new one. Spans are first
// tried tidy, since "== foo==" is inert markup to most renderers, then raw and
// one span at a time. When the old text around a change gets in the way (a
// double space the Reject seam would collapse, a lone '=' beside a delimiter)
// the change is widened over its unchanged neighbors until the line renders.
// Only a line that cannot be rendered even as one whole-line replacement is
// written as its old reading, and its changes are counted as dropped.
func renderLine(line Script) renderedLine {
	if out, ok := renderLevels(line); ok {
		return out
	}
	if len(changeGroups(line)) == 0 {
		return renderedLine{text: line.Old(), script: line, extents: make([]extent, len(line))}
	}

	for n := 1; ; n++ {
		var fallback *renderedLine
		whole := false
		for _, side := range [][2]int{{0, n}, {n, 0}, {n, n}} {
			wide, rest := widen(line, side[0], side[1])
			whole = whole || rest == 0
			for _, lvl := range []int{tidy, moved, raw} {
				out := renderAll(wide, lvl)
				if !resolvesBack(out.text, wide) {
					continue
				}
				if Resolve(out.text, Accept) == wide.New() {
					return out
				}
				if fallback == nil {
					fallback = &out
				}
			}
		}
		if fallback != nil {
			return *fallback
		}
		if whole {
			break
		}
	}

	old := line.Old()
	return renderedLine{
		text:    old,
		script:  Script{}.add(Unchanged, old),
		dropped: len(changeGroups(line)),
	}
}

// renderLevels renders line tidy, or failing that raw with each span raised to
// the best level that still resolves back.
func renderLevels(line Script) (renderedLine, bool) {
	out := renderAll(line, tidy)
	if resolvesBack(out.text, line) {
		return out, true
	}

	levels := make([]int, len(line))
	out = renderParts(line, levels)
	if !resolvesBack(out.text, line) {
		return renderedLine{}, false
	}

	for i, p := range line {
		if p.Kind == Unchanged {
			continue
		}
		for _, lvl := range []int{tidy, moved} {
			levels[i] = lvl
			if try := renderParts(line, levels); resolvesBack(try.text, line) {
				out = try
				break
			}
			levels[i] = raw
		}
	}

	return out, true
}

// resolvesBack reports whether markup rejects to the old reading of line and
// accepts to the words of its new reading.
func resolvesBack(markup string, line Script) bool {
	return Resolve(markup, Reject) == line.Old() &&
		squash(Resolve(markup, Accept)) == squash(line.New())
}

// squash drops all whitespace.
func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func renderAll(line Script, level int) renderedLine {
	levels := make([]int, len(line))
	for i := range levels {
		levels[i] = level
	}
	return renderParts(line, levels)
}

func renderParts(line Script, levels []int) renderedLine {
	var sb strings.Builder
	extents := make([]extent, len(line))

	for i, p := range line {
		if p.Kind == Unchanged {
			sb.WriteString(p.Text)
			continue
		}

		delim := addDelim
		if p.Kind == Removed {
			delim = delDelim
		}

		core := strings.TrimLeft(p.Text, " \t")
		lead := p.Text[:len(p.Text)-len(core)]
		trimmed := strings.TrimRight(core, " \t")
		trail := core[len(trimmed):]

		if levels[i] == raw || trimmed == "" {
			extents[i] = extent{sb.Len(), sb.Len() + len(p.Text) + 2*len(delim)}
			sb.WriteString(delim + p.Text + delim)
			continue
		}

		// "==x == " leaves a lone blank-padded delimiter; with a blank
		// already beside the span its own edge blank is redundant.
		if p.Kind == Added && levels[i] == tidy {
			if lead != "" && endsBlank(sb.String()) {
				lead = ""
			}
			if trail != "" && startsBlank(line, i+1, levels) {
				trail = ""
			}
		}

		sb.WriteString(lead)
		extents[i] = extent{sb.Len(), sb.Len() + len(trimmed) + 2*len(delim)}
		sb.WriteString(delim + trimmed + delim + trail)
	}

	return renderedLine{text: sb.String(), script: line, extents: extents}
}

func endsBlank(s string) bool {
	return s != "" && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t')
}

// startsBlank reports whether the rendering of part i starts with a blank.
func startsBlank(line Script, i int, levels []int) bool {
	if i >= len(line) || line[i].Text == "" {
		return false
	}
	if line[i].Kind != Unchanged && levels[i] == raw {
		return false
	}
	c := line[i].Text[0]
	return c == ' ' || c == '\t'
}

// changeGroups returns the [start, end) part indexes of every run of
// consecutive Removed and Added parts.
func changeGroups(line Script) [][2]int {
	var groups [][2]int
	for i := 0; i < len(line); {
		if line[i].Kind == Unchanged {
			i++
			continue
		}
		j := i
		for j < len(line) && line[j].Kind != Unchanged {
			j++
		}
		groups = append(groups, [2]int{i, j})
		i = j
	}
	return groups
}

// unit is a piece of unchanged text or a group of changes, for widening.
type unit struct {
	change   bool
	old, new string
	absorbed bool
}

// widen grows every change group of line over up to left unchanged pieces
// before it and right pieces after it. A piece is a run of blanks or a run of
// other characters; the line break is never absorbed. Groups that meet merge.
// It also returns how many pieces stay unchanged.
func widen(line Script, left, right int) (Script, int) {
	var units []unit
	eol := ""
	for i, p := range line {
		text := p.Text
		if i == len(line)-1 && p.Kind == Unchanged {
			trimmed := strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")
			eol = text[len(trimmed):]
			text = trimmed
		}

		switch p.Kind {
		case Unchanged:
			for _, piece := range pieces(text) {
				units = append(units, unit{old: piece, new: piece})
			}
		default:
			if n := len(units); n == 0 || !units[n-1].change {
				units = append(units, unit{change: true})
			}
			u := &units[len(units)-1]
			if p.Kind == Removed {
				u.old += p.Text
			} else {
				u.new += p.Text
			}
		}
	}

	for i, u := range units {
		if !u.change {
			continue
		}
		for j, n := i-1, 0; j >= 0 && n < left; j-- {
			if !units[j].change {
				units[j].absorbed = true
				n++
			}
		}
		for j, n := i+1, 0; j < len(units) && n < right; j++ {
			if !units[j].change {
				units[j].absorbed = true
				n++
			}
		}
	}

	var out Script
	rest := 0
	for i := 0; i < len(units); {
		if !units[i].change && !units[i].absorbed {
			out = out.add(Unchanged, units[i].old)
			rest++
			i++
			continue
		}
		var old, new strings.Builder
		for ; i < len(units) && (units[i].change || units[i].absorbed); i++ {
			old.WriteString(units[i].old)
			new.WriteString(units[i].new)
		}
		out = out.add(Removed, old.String()).add(Added, new.String())
	}

	return out.add(Unchanged, eol), rest
}

// pieces cuts s into alternating runs of blanks and of other characters.
func pieces(s string) []string {
	var out []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isBlankByte(s[i]) != isBlankByte(s[start]) {
			out = append(out, s[start:i])
			start = i
		}
	}
	return out
}

func isBlankByte(c byte) bool {
	return c == ' ' || c == '\t'
}
