package proofmark

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpans(t *testing.T) {
	type TestCase struct {
		Name string
		Text string

		Expected []Span
	}

	for i, tc := range []TestCase{
		{"no markup", "plain text", nil},
		{"added", "a ==b== c", []Span{{Start: 2, End: 7, Kind: Added, Inner: "b"}}},
		{
			"adjacent",
			"~~x~~==y==",
			[]Span{
				{Start: 0, End: 5, Kind: Removed, Inner: "x"},
				{Start: 5, End: 10, Kind: Added, Inner: "y"},
			},
		},
		{"leading delimiter char", "===b==", []Span{{Start: 0, End: 6, Kind: Added, Inner: "=b"}}},
		{"trailing delimiter char", "==a===", []Span{{Start: 0, End: 6, Kind: Added, Inner: "a="}}},
		{"empty span", "====", nil},
		{"unbalanced", "a==b", nil},
		{"crosses a line", "==a\nb==", nil},
		{"other delimiter abandons", "==a~~b~~", []Span{{Start: 3, End: 8, Kind: Removed, Inner: "b"}}},
		{"multibyte", "é==ü==", []Span{{Start: 2, End: 8, Kind: Added, Inner: "ü"}}},
	} {
		actual := slices.Collect(Spans(tc.Text))
		assert.Equal(t, tc.Expected, actual, fmt.Sprintf("Test case #%d, %s", i, tc.Name))
		assert.Equal(t, len(tc.Expected), CountSpans(tc.Text), fmt.Sprintf("Test case #%d, %s", i, tc.Name))
	}
}

func TestSpansRescan(t *testing.T) {
	seq := Spans("==a== ~~b~~")
	assert.Equal(t, slices.Collect(seq), slices.Collect(seq))

	var first []Span
	for sp := range seq {
		first = append(first, sp)
		break
	}
	assert.Equal(t, []Span{{Start: 0, End: 5, Kind: Added, Inner: "a"}}, first)
}

func TestSpanOffsets(t *testing.T) {
	text := "x ~~gone~~ y"
	sp, ok := FindNext(text, 0)
	assert.True(t, ok)
	assert.Equal(t, "gone", text[sp.InnerStart():sp.InnerEnd()])
	assert.Equal(t, "~~gone~~", text[sp.Start:sp.End])
	assert.True(t, sp.Contains(sp.Start))
	assert.True(t, sp.Contains(sp.End))
	assert.False(t, sp.Contains(sp.End+1))
}

func TestFindNext(t *testing.T) {
	text := "one ==two== three ~~four~~"

	type TestCase struct {
		Name string
		From int

		Found bool
		Start int
	}

	for i, tc := range []TestCase{
		{"before first", 0, true, 4},
		{"at start", 4, true, 4},
		{"inside", 7, true, 4},
		{"at end boundary", 11, true, 4},
		{"between", 12, true, 18},
		{"at last end", 26, true, 18},
		{"past the end", 100, true, 18},
		{"negative", -3, true, 4},
	} {
		sp, ok := FindNext(text, tc.From)
		assert.Equal(t, tc.Found, ok, fmt.Sprintf("Test case #%d, %s", i, tc.Name))
		assert.Equal(t, tc.Start, sp.Start, fmt.Sprintf("Test case #%d, %s", i, tc.Name))
	}

	_, ok := FindNext("no markup here", 3)
	assert.False(t, ok)

	// Spans on earlier lines are never returned.
	_, ok = FindNext("==a==\nb", 6)
	assert.False(t, ok)
}

func TestHasMarkup(t *testing.T) {
	assert.True(t, HasMarkup("a == b"))
	assert.True(t, HasMarkup("~~"))
	assert.False(t, HasMarkup("a = b ~ c"))
	assert.False(t, HasMarkup(""))
}
