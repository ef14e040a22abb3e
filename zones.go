package proofmark

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// zone is a byte range [start, end) of rendered markup in which suggestions
// are not trusted: quoted speech and citations.
type zone struct {
	start, end int
}

func (z zone) overlaps(start, end int) bool {
	return start < z.end && end > z.start
}

// protectZones rejects every change group whose rendering touches a protected
// zone. The group is turned back into its old text in the line's script and
// the line is rendered again, so the result still resolves back.
func protectZones(lines []renderedLine, quotes, blockquotes bool) {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.text)
	}
	markup := sb.String()

	var zones []zone
	if quotes {
		zones = append(zones, quoteZones(markup)...)
	}
	if blockquotes {
		zones = append(zones, blockquoteZones(markup)...)
	}
	if len(zones) == 0 {
		return
	}

	off := 0
	for i, l := range lines {
		base := off
		off += len(l.text)

		hit := false
		keep := make([]bool, len(l.script))
		for k := range keep {
			keep[k] = true
		}
		for _, g := range changeGroups(l.script) {
			start := base + l.extents[g[0]].start
			end := base + l.extents[g[1]-1].end
			for _, z := range zones {
				if z.overlaps(start, end) {
					hit = true
					for k := g[0]; k < g[1]; k++ {
						keep[k] = false
					}
					break
				}
			}
		}
		if !hit {
			continue
		}

		var s Script
		for k, p := range l.script {
			switch {
			case keep[k]:
				s = s.add(p.Kind, p.Text)
			case p.Kind == Removed:
				s = s.add(Unchanged, p.Text)
			}
		}
		lines[i] = renderLine(s)
	}
}

// quoteZones pairs up straight double quotes on each line.
func quoteZones(s string) []zone {
	var zones []zone
	open := -1

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			open = -1
		case '"':
			if open < 0 {
				open = i
			} else {
				zones = append(zones, zone{open, i + 1})
				open = -1
			}
		}
	}

	return zones
}

// blockquoteZones returns the full lines of every top-level Markdown
// blockquote. Lazy continuation lines belong to the quote as in CommonMark.
func blockquoteZones(s string) []zone {
	src := []byte(s)
	root := goldmark.New().Parser().Parse(text.NewReader(src))

	var zones []zone
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindBlockquote {
			return ast.WalkContinue, nil
		}

		start, stop := -1, -1
		_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering || c.Type() != ast.TypeBlock {
				return ast.WalkContinue, nil
			}
			lines := c.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				if start < 0 || seg.Start < start {
					start = seg.Start
				}
				if seg.Stop > stop {
					stop = seg.Stop
				}
			}
			return ast.WalkContinue, nil
		})

		if start >= 0 {
			zones = append(zones, zone{lineStart(s, start), lineEnd(s, stop)})
		}
		return ast.WalkSkipChildren, nil
	})

	return zones
}

func lineStart(s string, i int) int {
	return strings.LastIndexByte(s[:i], '\n') + 1
}

// lineEnd returns the offset of the line break ending the line that holds
// the byte before i.
func lineEnd(s string, i int) int {
	if i > 0 {
		i--
	}
	if j := strings.IndexByte(s[i:], '\n'); j >= 0 {
		return i + j
	}
	return len(s)
}
