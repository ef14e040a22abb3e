package editor

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// FrontmatterEnd returns the offset where the body of a Markdown document
// starts. A leading block between "---" lines is frontmatter only if it holds
// a YAML mapping (or nothing); otherwise the body starts at 0.
func FrontmatterEnd(text string) int {
	first, rest, ok := cutLine(text)
	if !ok || strings.TrimRight(first, " \t\r") != "---" {
		return 0
	}

	bodyStart := len(text) - len(rest)
	for pos := bodyStart; pos < len(text); {
		line, after, _ := cutLine(text[pos:])
		next := len(text) - len(after)

		if strings.TrimRight(line, " \t\r") == "---" {
			var fm map[string]any
			if err := yaml.Unmarshal([]byte(text[bodyStart:pos]), &fm); err != nil {
				return 0
			}
			return next
		}
		pos = next
	}

	return 0
}

// cutLine splits s after its first line break. ok is false if there is none.
func cutLine(s string) (line, rest string, ok bool) {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}
