package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPoints(t *testing.T) {
	b := NewBuffer("a", "one\ntwo\n\nfour")

	for i, tc := range []struct {
		Name   string
		Offset int
		Point  Point
	}{
		{"start", 0, Point{0, 0}},
		{"end of first line", 3, Point{0, 3}},
		{"second line", 5, Point{1, 1}},
		{"empty line", 8, Point{2, 0}},
		{"last", 13, Point{3, 4}},
	} {
		assert.Equal(t, tc.Point, b.OffsetToPoint(tc.Offset), fmt.Sprintf("Test case #%d, %s", i, tc.Name))
		assert.Equal(t, tc.Offset, b.PointToOffset(tc.Point), fmt.Sprintf("Test case #%d, %s", i, tc.Name))
	}

	assert.Equal(t, 3, b.PointToOffset(Point{0, 99}))
	assert.Equal(t, 13, b.PointToOffset(Point{99, 0}))
	assert.Equal(t, "2:2", Point{1, 1}.String())
}

func TestBufferLineRange(t *testing.T) {
	b := NewBuffer("a", "one\ntwo\n\nfour")

	start, end := b.LineRange(5)
	assert.Equal(t, []int{4, 7}, []int{start, end})

	start, end = b.LineRange(7)
	assert.Equal(t, []int{4, 7}, []int{start, end})

	start, end = b.LineRange(8)
	assert.Equal(t, []int{8, 8}, []int{start, end})
}

func TestBufferReplace(t *testing.T) {
	b := NewBuffer("a", "hello world", WithCursor(11))

	assert.NoError(t, b.Replace(0, 5, "hi"))
	assert.Equal(t, "hi world", b.Text())
	assert.Equal(t, 8, b.Cursor())

	assert.ErrorIs(t, b.Replace(5, 2, ""), ErrRangeInvalid)
	assert.ErrorIs(t, b.Replace(0, 100, ""), ErrRangeInvalid)
	assert.Equal(t, "hi world", b.Text())

	assert.NoError(t, b.Select(3, 8))
	start, end, ok := b.Selection()
	assert.True(t, ok)
	assert.Equal(t, []int{3, 8}, []int{start, end})

	assert.NoError(t, b.Replace(3, 8, "there"))
	_, _, ok = b.Selection()
	assert.False(t, ok)
}

func TestBufferViewport(t *testing.T) {
	b := NewBuffer("a", "0\n1\n2\n3\n4", WithViewport(1, 2))

	assert.False(t, b.Visible(0))
	assert.True(t, b.Visible(2))
	assert.True(t, b.Visible(4))
	assert.False(t, b.Visible(6))

	b.ScrollTo(8)
	assert.Equal(t, 4, b.ViewTop())

	// Already visible: no scroll.
	b.ScrollTo(8)
	assert.Equal(t, 4, b.ViewTop())

	assert.True(t, NewBuffer("b", "x\ny").Visible(3))
}

func TestFrontmatterEnd(t *testing.T) {
	for i, tc := range []struct {
		Name     string
		Text     string
		Expected int
	}{
		{"none", "Just text.", 0},
		{"mapping", "---\ntitle: x\ntags: [a, b]\n---\nBody", 30},
		{"empty block", "---\n---\nBody", 8},
		{"at end of text", "---\na: 1\n---", 12},
		{"not a mapping", "---\n- a\n- b\n---\nBody", 0},
		{"unclosed", "---\na: 1\nBody", 0},
		{"rule later in text", "Intro\n---\nmore", 0},
		{"bad yaml", "---\na: [1\n---\nBody", 0},
	} {
		assert.Equal(t, tc.Expected, FrontmatterEnd(tc.Text), fmt.Sprintf("Test case #%d, %s", i, tc.Name))
	}
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "Document", ScopeDocument.String())
	assert.Equal(t, "Selection", ScopeSelection.String())
	assert.Equal(t, "Paragraph", ScopeParagraph.String())
	assert.Equal(t, "resolved", NavResolved.String())
}
